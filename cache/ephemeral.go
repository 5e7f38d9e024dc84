package cache

import (
	"sync"
	"time"
)

// ephemeralEntry is one cached payload with its write timestamp.
type ephemeralEntry struct {
	data      []byte
	writtenAt time.Time
}

// EphemeralTier is the fast in-memory cache tier. It lives for the life of
// the process and is pruned only by TTL-on-read: an expired entry is
// deleted the moment a read observes it. Safe for concurrent use.
type EphemeralTier struct {
	mu      sync.RWMutex
	entries map[string]ephemeralEntry
	now     func() time.Time
}

// NewEphemeralTier creates an empty ephemeral tier.
func NewEphemeralTier() *EphemeralTier {
	return &EphemeralTier{
		entries: make(map[string]ephemeralEntry),
		now:     time.Now,
	}
}

// Get returns the payload for key when it was written within ttl.
// An entry older than ttl is removed and reported as a miss.
func (t *EphemeralTier) Get(key string, ttl time.Duration) ([]byte, bool) {
	t.mu.RLock()
	entry, ok := t.entries[key]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if t.now().Sub(entry.writtenAt) >= ttl {
		t.mu.Lock()
		// Recheck under the write lock; a concurrent Set may have refreshed it.
		if current, still := t.entries[key]; still && current.writtenAt.Equal(entry.writtenAt) {
			delete(t.entries, key)
		}
		t.mu.Unlock()
		return nil, false
	}

	return entry.data, true
}

// Set upserts the payload for key with the current time as its write
// timestamp. Last writer wins.
func (t *EphemeralTier) Set(key string, data []byte) {
	t.mu.Lock()
	t.entries[key] = ephemeralEntry{data: data, writtenAt: t.now()}
	t.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (t *EphemeralTier) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
