package cache

import (
	"sync/atomic"
)

// tierStats tracks cache activity with atomic counters.
type tierStats struct {
	ephemeralHits   atomic.Int64
	durableHits     atomic.Int64
	misses          atomic.Int64
	writeBackErrors atomic.Int64
}

// Stats is a snapshot of two-tier cache activity.
type Stats struct {
	// EphemeralHits counts resolves served by the in-memory tier.
	EphemeralHits int64 `json:"ephemeral_hits"`
	// DurableHits counts resolves served by the shared tier.
	DurableHits int64 `json:"durable_hits"`
	// Misses counts resolves that invoked the compute step.
	Misses int64 `json:"misses"`
	// WriteBackErrors counts failed durable write-backs.
	WriteBackErrors int64 `json:"write_back_errors"`
}

func (s *tierStats) snapshot() Stats {
	return Stats{
		EphemeralHits:   s.ephemeralHits.Load(),
		DurableHits:     s.durableHits.Load(),
		Misses:          s.misses.Load(),
		WriteBackErrors: s.writeBackErrors.Load(),
	}
}
