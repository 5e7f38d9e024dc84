package retry

import (
	"sync/atomic"
	"time"
)

// controllerStats tracks retry activity with atomic counters so concurrent
// logical requests never contend on a lock.
type controllerStats struct {
	totalAttempts           atomic.Int64
	successfulFirstAttempts atomic.Int64
	successfulRetries       atomic.Int64
	attemptsExhausted       atomic.Int64
	maxBackoff              atomic.Int64 // nanoseconds
}

var stats controllerStats

// Stats is a snapshot of retry controller activity.
type Stats struct {
	// TotalAttempts counts every dispatched attempt, first or retried.
	TotalAttempts int64 `json:"total_attempts"`
	// SuccessfulFirstAttempts counts work that succeeded without retrying.
	SuccessfulFirstAttempts int64 `json:"successful_first_attempts"`
	// SuccessfulRetries counts work that succeeded only after a retry.
	SuccessfulRetries int64 `json:"successful_retries"`
	// AttemptsExhausted counts rate-limited work that used every attempt.
	AttemptsExhausted int64 `json:"attempts_exhausted"`
	// MaxBackoff is the longest backoff slept so far.
	MaxBackoff time.Duration `json:"max_backoff"`
}

func (s *controllerStats) recordBackoff(backoff time.Duration) {
	nanos := backoff.Nanoseconds()
	for {
		current := s.maxBackoff.Load()
		if nanos <= current {
			return
		}
		if s.maxBackoff.CompareAndSwap(current, nanos) {
			return
		}
	}
}

// Snapshot returns the current retry statistics.
func Snapshot() Stats {
	return Stats{
		TotalAttempts:           stats.totalAttempts.Load(),
		SuccessfulFirstAttempts: stats.successfulFirstAttempts.Load(),
		SuccessfulRetries:       stats.successfulRetries.Load(),
		AttemptsExhausted:       stats.attemptsExhausted.Load(),
		MaxBackoff:              time.Duration(stats.maxBackoff.Load()),
	}
}
