// Package retry repeats a unit of work against a single provider using
// classified-error-driven exponential backoff with jitter, bounded by a
// maximum attempt count. Only rate-limit classified failures are retried;
// everything else fails the provider immediately.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	aierrors "github.com/studyhall/aibridge/errors"
)

// Config controls retry behavior for one provider's attempt set.
type Config struct {
	// MaxAttempts bounds attempts including the first. Call sites pass
	// their own value; 3 and 5 are both in use.
	MaxAttempts int

	// BackoffUnit is the base of the delay formula
	// 2^attempt * unit + jitter(0..unit). Defaults to one second.
	BackoffUnit time.Duration
}

// Backoff computes the delay before the retry following the given attempt
// number. Attempt numbering starts at 1, so the first retry already waits
// at least 2x the unit and never hammers a just-exhausted quota.
// Thread-safe via math/rand/v2.
func Backoff(attempt int, unit time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if unit <= 0 {
		unit = time.Second
	}
	base := time.Duration(1<<uint(attempt)) * unit
	jitter := time.Duration(rand.Int64N(int64(unit) + 1)) // #nosec G404 -- non-cryptographic jitter
	return base + jitter
}

// Attempt runs work up to cfg.MaxAttempts times against one provider.
// After each failure the error is classified; only a rate-limit verdict
// with attempts remaining leads to a backoff sleep and another attempt.
// Cancellation is observed at entry, during the work, and during the
// sleep, and always propagates immediately instead of waiting out the
// backoff.
func Attempt[T any](ctx context.Context, cfg Config, logger *slog.Logger, work func(context.Context) (T, error)) (T, error) {
	var zero T
	if logger == nil {
		logger = slog.Default().With("component", "retry")
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("cancelled before attempt %d: %w", attempt, ctx.Err())
		default:
		}

		value, err := work(ctx)
		stats.totalAttempts.Add(1)
		if err == nil {
			if attempt > 1 {
				stats.successfulRetries.Add(1)
				logger.Info("attempt succeeded after retry", "attempt", attempt)
			} else {
				stats.successfulFirstAttempts.Add(1)
			}
			return value, nil
		}

		if aierrors.IsCancelled(err) && ctx.Err() != nil {
			return zero, fmt.Errorf("cancelled during attempt %d: %w", attempt, ctx.Err())
		}

		lastErr = err
		classified := aierrors.Classify(err)
		if !classified.RateLimited || attempt == maxAttempts {
			if classified.RateLimited {
				stats.attemptsExhausted.Add(1)
			}
			logger.Debug("attempt failed terminally",
				"attempt", attempt,
				"rate_limited", classified.RateLimited,
				"error", err)
			return zero, err
		}

		backoff := Backoff(attempt, cfg.BackoffUnit)
		stats.recordBackoff(backoff)
		logger.Debug("rate limited, retrying after backoff",
			"attempt", attempt,
			"backoff", backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return zero, fmt.Errorf("cancelled during backoff after attempt %d: %w", attempt, ctx.Err())
		}
	}

	// Unreachable: the loop always returns on the final attempt.
	return zero, lastErr
}
