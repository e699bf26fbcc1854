// Package retry wraps single upstream calls with bounded retries and
// backoff. Only errors the classifier marks transient are retried; anything
// else propagates immediately.
package retry

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second

	jitterFloor = 500 * time.Millisecond
	jitterSpan  = time.Second
)

// Policy controls retry behavior for one call site.
type Policy struct {
	// MaxAttempts counts total invocations, not re-tries.
	MaxAttempts int
	// BaseDelay scales linearly with the attempt number: the wait before
	// attempt k+1 is BaseDelay*k plus jitter in [0.5s, 1.5s).
	BaseDelay time.Duration
	// Transient decides whether an error is worth another attempt.
	Transient func(error) bool

	// jitterFn is overridable in tests.
	jitterFn func() time.Duration
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.Transient == nil {
		p.Transient = func(error) bool { return false }
	}
	if p.jitterFn == nil {
		p.jitterFn = func() time.Duration {
			return jitterFloor + time.Duration(rand.Int63n(int64(jitterSpan)))
		}
	}
	return p
}

// Do invokes fn until it succeeds, fails non-transiently, or exhausts the
// attempt budget. The final attempt's error is returned unwrapped.
func Do[T any](ctx context.Context, policy Policy, logger *slog.Logger, op string, fn func() (T, error)) (T, error) {
	var zero T
	p := policy.normalize()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !p.Transient(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := time.Duration(attempt)*p.BaseDelay + p.jitterFn()
		logging.Warn(logger, "transient failure, retrying",
			slog.String(logging.FieldEndpoint, op),
			slog.Int(logging.FieldAttempt, attempt),
			slog.Int("max_attempts", p.MaxAttempts),
			slog.Int64(logging.FieldDurationMS, delay.Milliseconds()),
			slog.Any("error", err),
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	logging.Warn(logger, "retries exhausted",
		slog.String(logging.FieldEndpoint, op),
		slog.Int("max_attempts", p.MaxAttempts),
		slog.Any("error", lastErr),
	)
	return zero, lastErr
}
