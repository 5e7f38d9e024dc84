// Package fallback drives a provider priority list through the retry
// controller and execution envelope, provider by provider, until one
// succeeds or all are exhausted. Providers are never attempted
// concurrently: the cost of a failed attempt against provider N is never
// paid in parallel with starting provider N+1.
package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studyhall/aibridge/envelope"
	aierrors "github.com/studyhall/aibridge/errors"
	"github.com/studyhall/aibridge/providers"
	"github.com/studyhall/aibridge/retry"
)

// Config controls one orchestrated run.
type Config struct {
	// AttemptTimeout bounds one provider's attempt set, retries included.
	AttemptTimeout time.Duration

	// Retry governs in-provider retries on rate-limit classified errors.
	Retry retry.Config
}

// WorkFactory builds the unit of work for one provider descriptor. The
// returned function is invoked with the envelope's derived context so the
// work unwinds on timeout or cancellation.
type WorkFactory[T any] func(providers.Descriptor) func(context.Context) (T, error)

// Run attempts each provider in priority order and returns the first
// success. Failed and timed-out providers are recorded and skipped;
// cancellation aborts the loop immediately and propagates. When every
// provider is exhausted the aggregated failure carries the last observed
// error and the feature name for diagnosis.
func Run[T any](ctx context.Context, cfg Config, list []providers.Descriptor, feature string, factory WorkFactory[T]) (T, error) {
	var zero T
	logger := slog.Default().With("component", "fallback", "feature", feature)

	var lastErr error
	attempted := make([]string, 0, len(list))

	for _, provider := range list {
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("cancelled before provider %s: %w", provider.Label, ctx.Err())
		default:
		}

		attempted = append(attempted, provider.Label)
		work := factory(provider)

		outcome := envelope.Run(ctx, cfg.AttemptTimeout, func(workCtx context.Context) (T, error) {
			return retry.Attempt(workCtx, cfg.Retry, logger, work)
		})

		switch outcome.Status {
		case envelope.StatusSucceeded:
			logger.Debug("provider succeeded",
				"provider", provider.Label,
				"family", provider.Family)
			return outcome.Value, nil

		case envelope.StatusCancelled:
			return zero, fmt.Errorf("cancelled at provider %s: %w", provider.Label, outcome.Err)

		case envelope.StatusTimedOut:
			lastErr = fmt.Errorf("provider %s: %w", provider.Label, outcome.Err)
			logger.Warn("provider timed out, advancing",
				"provider", provider.Label,
				"timeout", cfg.AttemptTimeout)

		case envelope.StatusFailed:
			lastErr = outcome.Err
			logger.Warn("provider failed, advancing",
				"provider", provider.Label,
				"error", outcome.Err)
		}
	}

	return zero, &aierrors.ExhaustedError{
		Feature:   feature,
		Attempted: attempted,
		Last:      lastErr,
	}
}
