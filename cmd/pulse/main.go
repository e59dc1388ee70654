package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"BTCPulse/internal/calculator"
	"BTCPulse/internal/collector"
	"BTCPulse/internal/config"
	"BTCPulse/internal/logger"
	"BTCPulse/internal/metrics"
	"BTCPulse/internal/model"
	"BTCPulse/internal/notifier"
	"BTCPulse/internal/scheduler"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pulse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to YAML config")
	granularity := fs.String("granularity", "", "candle granularity: 1m, 5m, 15m, 1h, 6h, 1d (or seconds)")
	pair := fs.String("pair", "", "product id, e.g. BTC-USD")
	watch := fs.Bool("watch", false, "keep running and print a line on the configured cron schedule")
	noColor := fs.Bool("no-color", false, "disable coloured output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config failed: %v\n", err)
		return 1
	}
	if *granularity != "" {
		cfg.Granularity = *granularity
	}
	if *pair != "" {
		cfg.DataSource.Pair = *pair
	}
	if *noColor {
		cfg.Output.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config failed: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(stderr, "logger failed: %v\n", err)
		return 1
	}
	defer logger.Sync()

	g, _ := model.ParseGranularity(cfg.Granularity)
	lookbacks, err := calculator.Lookbacks(g)
	if err != nil {
		fmt.Fprintf(stderr, "config failed: %v\n", err)
		return 1
	}
	windows := make([]string, len(lookbacks))
	for i, lb := range lookbacks {
		windows[i] = lb.Label
	}
	fetcher := newFetcher(cfg)
	logger.Info("data source selected",
		logger.String("source", fetcher.Name()),
		logger.String("pair", cfg.DataSource.Pair),
		logger.String("granularity", g.String()),
		logger.Strings("windows", windows),
	)

	col := collector.NewCollector(fetcher, cfg.DataSource.Pair)
	out := notifier.NewConsoleNotifier(stdout, !cfg.Output.NoColor)
	timeout := time.Duration(cfg.Watch.TimeoutSecs) * time.Second

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, col, out, g, timeout)

	if !*watch {
		if err := sched.RunNow(ctx); err != nil {
			reportFailure(stderr, err)
			return 1
		}
		return 0
	}
	return runWatch(ctx, cfg, sched, stderr)
}

func runWatch(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler, stderr io.Writer) int {
	if cfg.Metrics.Addr != "" {
		ms := metrics.NewServer(cfg.Metrics.Addr)
		ms.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ms.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", logger.ErrorField(err))
			}
		}()
	}

	if err := sched.Register(cfg.Watch.Cron); err != nil {
		reportFailure(stderr, err)
		return 1
	}
	if cfg.Watch.RunOnStart {
		if err := sched.RunNow(ctx); err != nil {
			logger.Error("initial cycle failed", logger.ErrorField(err))
		}
	}
	sched.Start()

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping")
	sched.Stop()
	return 0
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	rest := collector.NewCoinbaseFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	if cfg.DataSource.Ticker == config.TickerWebSocket {
		return &collector.HybridFetcher{
			Candles: rest,
			Price:   collector.NewStreamPriceSource(cfg.DataSource.FeedURL),
		}
	}
	return rest
}

// reportFailure prints which stage failed.
func reportFailure(w io.Writer, err error) {
	logger.Error("run failed", logger.ErrorField(err))
	var se *collector.StageError
	if errors.As(err, &se) {
		fmt.Fprintf(w, "%s failed: %v\n", se.Stage, se.Err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
