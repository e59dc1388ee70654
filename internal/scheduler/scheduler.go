package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"BTCPulse/internal/collector"
	"BTCPulse/internal/logger"
	"BTCPulse/internal/metrics"
	"BTCPulse/internal/model"
)

// Notifier receives each completed snapshot.
type Notifier interface {
	Notify(s *model.Snapshot) error
}

// Scheduler runs collect cycles on a cron schedule. Cycles never overlap.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Notifier    Notifier
	Granularity model.Granularity
	Timeout     time.Duration
	Ctx         context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, g model.Granularity, timeout time.Duration) *Scheduler {
	cl := cronLogger{s: logger.Get().Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector:   col,
		Notifier:    n,
		Granularity: g,
		Timeout:     timeout,
		Ctx:         ctx,
	}
}

// Register adds the collect job on spec (six fields, seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.cycle); err != nil {
		return fmt.Errorf("register collect task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started", logger.String("granularity", s.Granularity.String()))
}

// Stop stops the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Info("scheduler stopped")
}

// RunNow executes one cycle synchronously. It either notifies a complete
// snapshot or returns an error without notifying.
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := s.Collector.Collect(ctx, s.Granularity)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues(metrics.StatusError).Inc()
		return err
	}
	if err := s.Notifier.Notify(snap); err != nil {
		metrics.CyclesTotal.WithLabelValues(metrics.StatusError).Inc()
		return fmt.Errorf("notify: %w", err)
	}
	metrics.CyclesTotal.WithLabelValues(metrics.StatusOK).Inc()

	logger.Info("cycle complete",
		logger.String("run_id", runID),
		logger.String("pair", snap.Pair),
		logger.Float64("live_price", snap.LivePrice),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) cycle() {
	if s.Ctx.Err() != nil {
		return
	}
	if err := s.RunNow(s.Ctx); err != nil {
		logger.Error("collect cycle failed", logger.ErrorField(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
