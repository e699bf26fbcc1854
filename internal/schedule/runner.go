// Package schedule drives repeated incremental ingestion runs on a fixed
// interval, tracking loop health for readiness checks.
package schedule

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/pipeline"
)

const defaultInterval = 6 * time.Hour

// Ingester runs one incremental ingestion pass.
type Ingester interface {
	RunIncremental(ctx context.Context, opts pipeline.Options, lookbackDays int) (*pipeline.Report, error)
}

// Runner re-runs incremental ingestion until stopped. A run that lands
// nothing new is still a success; overlapping windows are absorbed by the
// sink's idempotency.
type Runner struct {
	ingester Ingester
	opts     pipeline.Options
	lookback int
	logger   *slog.Logger
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the ingestion loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastGames           int
	LastWritten         int
}

// IsReady reports whether the loop has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Runner.
func New(ingester Ingester, opts pipeline.Options, lookbackDays int, logger *slog.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		ingester: ingester,
		opts:     opts,
		lookback: lookbackDays,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the run loop until the context is cancelled or Stop is
// called. The first run fires immediately.
func (r *Runner) Start(ctx context.Context) {
	r.startMu.Lock()
	if r.started {
		r.startMu.Unlock()
		return
	}
	r.started = true
	r.startMu.Unlock()

	r.ticker = time.NewTicker(r.interval)

	go func() {
		logging.Info(r.logger, "ingestion loop started",
			slog.Int64(logging.FieldDurationMS, r.interval.Milliseconds()))
		r.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				r.stopTicker()
				logging.Info(r.logger, "ingestion loop stopped")
				return
			case <-r.done:
				r.stopTicker()
				logging.Info(r.logger, "ingestion loop stopped")
				return
			case <-r.ticker.C:
				r.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the run loop.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.stopTicker()
	})
}

func (r *Runner) runOnce(ctx context.Context) {
	start := time.Now()
	r.recordAttempt(start)

	report, err := r.ingester.RunIncremental(ctx, r.opts, r.lookback)
	if err != nil {
		logging.Error(r.logger, "ingestion run failed", err,
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		r.recordFailure(err, start)
		return
	}

	r.recordSuccess(report, start)
	logging.Info(r.logger, "ingestion run finished",
		slog.String(logging.FieldSeason, report.Season),
		slog.Int(logging.FieldCount, report.Games),
		slog.Int("written", report.TotalWritten()),
		slog.Int("failed", report.TotalFailed()),
		slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
}

func (r *Runner) stopTicker() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
}

func (r *Runner) recordAttempt(at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.LastAttempt = at
}

func (r *Runner) recordSuccess(report *pipeline.Report, at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures = 0
	r.status.LastError = ""
	r.status.LastSuccess = at
	r.status.LastGames = report.Games
	r.status.LastWritten = report.TotalWritten()
}

func (r *Runner) recordFailure(err error, at time.Time) {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	r.status.ConsecutiveFailures++
	if err != nil {
		r.status.LastError = err.Error()
	}
	r.status.LastAttempt = at
}

// Status returns a snapshot of the loop's recent health.
func (r *Runner) Status() Status {
	r.statusMu.RLock()
	defer r.statusMu.RUnlock()
	return r.status
}
