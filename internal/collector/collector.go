package collector

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"BTCPulse/internal/calculator"
	"BTCPulse/internal/logger"
	"BTCPulse/internal/metrics"
	"BTCPulse/internal/model"
)

// Stage names the step of a collect cycle that failed.
type Stage string

const (
	StageCandles Stage = "candle fetch"
	StageTicker  Stage = "ticker fetch"
	StageCompute Stage = "computation"
)

// StageError wraps a failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Collector orchestrates data fetching and change computation.
type Collector struct {
	Fetcher Fetcher
	Pair    string
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, pair string) *Collector {
	return &Collector{Fetcher: fetcher, Pair: pair, Now: time.Now}
}

// Collect fetches candles and the live price concurrently, then computes the
// changes for g. It returns a complete snapshot or an error, never both.
func (c *Collector) Collect(ctx context.Context, g model.Granularity) (*model.Snapshot, error) {
	required, err := calculator.RequiredCandles(g)
	if err != nil {
		return nil, &StageError{Stage: StageCompute, Err: err}
	}

	var (
		candles   []model.Candle
		livePrice float64
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		start := time.Now()
		var err error
		candles, err = c.Fetcher.FetchCandles(egCtx, c.Pair, g)
		c.observe(StageCandles, start, err)
		if err != nil {
			return &StageError{Stage: StageCandles, Err: err}
		}
		return nil
	})
	eg.Go(func() error {
		start := time.Now()
		var err error
		livePrice, err = c.Fetcher.FetchLivePrice(egCtx, c.Pair)
		c.observe(StageTicker, start, err)
		if err != nil {
			return &StageError{Stage: StageTicker, Err: err}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(candles) < required {
		logger.Warn("not enough candle history",
			logger.String("pair", c.Pair),
			logger.String("granularity", g.String()),
			logger.Int("candles", len(candles)),
			logger.Int("required", required),
		)
	} else {
		logger.Debug("market data fetched",
			logger.String("pair", c.Pair),
			logger.String("granularity", g.String()),
			logger.Int("candles", len(candles)),
			logger.Time("newest_candle", candles[0].Time()),
			logger.Float64("live_price", livePrice),
		)
	}

	changes, err := calculator.ComputeChanges(candles, livePrice, g)
	if err != nil {
		return nil, &StageError{Stage: StageCompute, Err: err}
	}

	metrics.LivePrice.WithLabelValues(c.Pair).Set(livePrice)
	for _, ch := range changes {
		metrics.ChangePercent.WithLabelValues(c.Pair, g.String(), ch.Label).Set(ch.Percent)
	}

	return &model.Snapshot{
		Pair:        c.Pair,
		Granularity: g,
		LivePrice:   livePrice,
		Changes:     changes,
		Source:      c.Fetcher.Name(),
		FetchedAt:   c.Now(),
	}, nil
}

func (c *Collector) observe(stage Stage, start time.Time, err error) {
	source := c.Fetcher.Name()
	metrics.FetchDuration.WithLabelValues(source, string(stage)).Observe(time.Since(start).Seconds())
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
		logger.Warn("fetch failed",
			logger.String("source", source),
			logger.String("stage", string(stage)),
			logger.ErrorField(err),
		)
	}
	metrics.FetchTotal.WithLabelValues(source, string(stage), status).Inc()
}
