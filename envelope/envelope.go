// Package envelope provides the execution envelope: a tagged-outcome race
// between one unit of work, a deadline timer, and caller cancellation.
// Exactly one branch settles the outcome; the losing branches are always
// torn down (timer stopped, derived context cancelled) so no timers or
// goroutine references leak past the call's lifetime.
package envelope

import (
	"context"
	"errors"
	"time"

	aierrors "github.com/studyhall/aibridge/errors"
)

// Status tags the outcome of one envelope run.
type Status int

const (
	// StatusSucceeded means the work settled with a value first.
	StatusSucceeded Status = iota

	// StatusTimedOut means the deadline expired before the work settled.
	StatusTimedOut

	// StatusCancelled means caller cancellation fired first. Once produced,
	// no further retries or fallback attempts may start for the request.
	StatusCancelled

	// StatusFailed means the work settled with an error first.
	StatusFailed
)

// String returns the outcome tag for logging.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusTimedOut:
		return "timed_out"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of racing one unit of work against its deadline
// and caller cancellation.
type Outcome[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Run races work against deadline and ctx cancellation and returns whichever
// settles first as a tagged outcome. The work receives a context derived
// from ctx that is cancelled when the envelope returns, which unwinds any
// in-flight HTTP call or backoff sleep inside it. A ctx that is already
// cancelled fails fast without starting the work.
func Run[T any](ctx context.Context, deadline time.Duration, work func(context.Context) (T, error)) Outcome[T] {
	var zero T

	select {
	case <-ctx.Done():
		return Outcome[T]{Status: StatusCancelled, Value: zero, Err: ctx.Err()}
	default:
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type settled struct {
		value T
		err   error
	}
	// Buffered so the work goroutine can always complete and be collected,
	// even when the timer or cancellation wins the race.
	done := make(chan settled, 1)

	go func() {
		value, err := work(workCtx)
		done <- settled{value: value, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case s := <-done:
		if s.err != nil {
			// Work that unwound because the caller cancelled reports as
			// cancellation, not as a provider failure.
			if errors.Is(s.err, context.Canceled) && ctx.Err() != nil {
				return Outcome[T]{Status: StatusCancelled, Value: zero, Err: ctx.Err()}
			}
			return Outcome[T]{Status: StatusFailed, Value: zero, Err: s.err}
		}
		return Outcome[T]{Status: StatusSucceeded, Value: s.value}

	case <-timer.C:
		return Outcome[T]{Status: StatusTimedOut, Value: zero, Err: aierrors.ErrProviderTimeout}

	case <-ctx.Done():
		return Outcome[T]{Status: StatusCancelled, Value: zero, Err: ctx.Err()}
	}
}
