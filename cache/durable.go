package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the durable tier holds no entry for a key.
var ErrNotFound = errors.New("cache entry not found")

// DurableStore is the shared, long-lived cache tier. Implementations must
// provide last-writer-wins upsert semantics keyed by the composite key
// string; no stronger consistency is required because a stale overwrite is
// self-correcting on the next successful resolve.
type DurableStore interface {
	// Get returns the payload and its write timestamp, or ErrNotFound.
	Get(ctx context.Context, key string) (data []byte, writtenAt time.Time, err error)

	// Upsert stores the payload under key, replacing any existing entry.
	Upsert(ctx context.Context, key string, data []byte, writtenAt time.Time) error
}
