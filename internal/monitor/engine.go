package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/web3-frozen/btc-dashboard/internal/compute"
	"github.com/web3-frozen/btc-dashboard/internal/metrics"
)

const (
	DefaultRefreshInterval = 1 * time.Minute
	MinRefreshInterval     = 15 * time.Second
	MaxRefreshInterval     = 1 * time.Hour
)

// ClampInterval bounds a refresh interval to [MinRefreshInterval,
// MaxRefreshInterval]. Zero selects the default.
func ClampInterval(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultRefreshInterval
	case d < MinRefreshInterval:
		return MinRefreshInterval
	case d > MaxRefreshInterval:
		return MaxRefreshInterval
	}
	return d
}

// Engine refreshes every source on an interval, evaluates the derived
// metrics and keeps the latest report for readers.
type Engine struct {
	sources  Sources
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu   sync.RWMutex
	last *Report
}

func NewEngine(src Sources, logger *slog.Logger, interval time.Duration) *Engine {
	return &Engine{
		sources:  src,
		logger:   logger,
		interval: ClampInterval(interval),
		now:      time.Now,
	}
}

// Interval returns the effective refresh interval.
func (e *Engine) Interval() time.Duration { return e.interval }

// SourceNames returns names of all configured sources in refresh order.
func (e *Engine) SourceNames() []string {
	s := e.sources
	var names []string
	for _, src := range []interface{ Name() string }{
		s.Price, s.BlockHeight, s.BlockHeight7dAgo, s.AvgBlockTime,
		s.DifficultyAdjustment, s.OnchainVolume, s.InstitutionalHoldings,
	} {
		if src != nil {
			names = append(names, src.Name())
		}
	}
	return names
}

// Latest returns the most recent report, or nil before the first refresh.
func (e *Engine) Latest() *Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// Run refreshes immediately and then on every tick until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	e.Refresh(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Refresh(ctx)
		}
	}
}

// Refresh reads every source once, evaluates the derived metrics and
// publishes the result as the latest report.
func (e *Engine) Refresh(ctx context.Context) *Report {
	start := time.Now()
	id := uuid.NewString()
	log := e.logger.With("cycle", id)

	in := e.Gather(ctx, log)
	r := &Report{
		ID:          id,
		GeneratedAt: e.now().UTC(),
		Inputs:      in,
		Derived:     Evaluate(in),
	}

	e.mu.Lock()
	e.last = r
	e.mu.Unlock()

	available := 0
	for name, v := range r.Derived.gauges() {
		if val, ok := v.Get(); ok {
			metrics.MetricValue.WithLabelValues(name).Set(val)
			metrics.MetricAvailable.WithLabelValues(name).Set(1)
			available++
			continue
		}
		metrics.MetricValue.DeleteLabelValues(name)
		metrics.MetricAvailable.WithLabelValues(name).Set(0)
	}
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	log.Info("refresh complete",
		"available_metrics", available,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return r
}

// Gather fetches one snapshot of every source sequentially. Failures are
// logged and become Unavailable.
func (e *Engine) Gather(ctx context.Context, log *slog.Logger) Inputs {
	s := e.sources
	return Inputs{
		Price:                 fetch(ctx, log, s.Price),
		BlockHeight:           fetch(ctx, log, s.BlockHeight),
		BlockHeight7dAgo:      fetch(ctx, log, s.BlockHeight7dAgo),
		AvgBlockTime:          finite(fetch(ctx, log, s.AvgBlockTime)),
		DifficultyAdjustment:  fetch(ctx, log, s.DifficultyAdjustment),
		OnchainVolume:         fetch(ctx, log, s.OnchainVolume),
		InstitutionalHoldings: fetch(ctx, log, s.InstitutionalHoldings),
	}
}

// finite drops NaN and infinite readings so they never reach a report.
func finite(v compute.Value[float64]) compute.Value[float64] {
	f, ok := v.Get()
	if !ok {
		return v
	}
	return compute.Finite(f)
}

func fetch[T any](ctx context.Context, log *slog.Logger, src Source[T]) compute.Value[T] {
	if src == nil {
		return compute.Unavailable[T]()
	}
	name := src.Name()

	start := time.Now()
	v, err := src.Fetch(ctx)
	metrics.PollDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PollTotal.WithLabelValues(name, "error").Inc()
		log.Error("fetch failed", "source", name, "error", err)
		return compute.Unavailable[T]()
	}

	metrics.PollTotal.WithLabelValues(name, "ok").Inc()
	metrics.PollLastSuccess.WithLabelValues(name).SetToCurrentTime()
	return compute.Of(v)
}
