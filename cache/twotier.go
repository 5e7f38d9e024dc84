package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// TwoTier combines the ephemeral and durable tiers into one read-through,
// write-back resolver. The durable store may be nil, in which case the
// resolver degrades to ephemeral-only caching.
type TwoTier struct {
	ephemeral *EphemeralTier
	durable   DurableStore

	ttl        time.Duration // ephemeral freshness window
	staleAfter time.Duration // durable staleness window

	logger *slog.Logger
	now    func() time.Time
	stats  tierStats
}

// NewTwoTier creates a resolver over the given tiers.
func NewTwoTier(durable DurableStore, ttl, staleAfter time.Duration) *TwoTier {
	return &TwoTier{
		ephemeral:  NewEphemeralTier(),
		durable:    durable,
		ttl:        ttl,
		staleAfter: staleAfter,
		logger:     slog.Default().With("component", "cache"),
		now:        time.Now,
	}
}

// Resolve returns the cached value for key or computes it. The sequence is
// fixed: ephemeral tier first, durable tier second (fresh durable hits are
// promoted into the ephemeral tier), compute last. A successful compute is
// upserted into both tiers before returning. A compute failure propagates
// even when a stale durable value exists; last-resort defaults are the
// caller's concern.
func Resolve[T any](ctx context.Context, tt *TwoTier, key Key, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if data, ok := tt.ephemeral.Get(k, tt.ttl); ok {
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			tt.stats.ephemeralHits.Add(1)
			return value, nil
		}
		// Undecodable payload is treated as a miss and overwritten below.
		tt.logger.Warn("dropping undecodable ephemeral entry", "key", k)
	}

	if tt.durable != nil {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		data, writtenAt, err := tt.durable.Get(ctx, k)
		switch {
		case err == nil && tt.now().Sub(writtenAt) < tt.staleAfter:
			var value T
			if uerr := json.Unmarshal(data, &value); uerr == nil {
				tt.ephemeral.Set(k, data)
				tt.stats.durableHits.Add(1)
				return value, nil
			}
			tt.logger.Warn("dropping undecodable durable entry", "key", k)
		case err != nil && err != ErrNotFound:
			tt.logger.Warn("durable tier read failed, computing", "key", k, "error", err)
		}
	}

	tt.stats.misses.Add(1)
	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("marshal computed value for %s: %w", k, err)
	}

	tt.ephemeral.Set(k, data)
	if tt.durable != nil {
		if err := tt.durable.Upsert(ctx, k, data, tt.now()); err != nil {
			// Write-back is best effort; the value is already good.
			tt.stats.writeBackErrors.Add(1)
			tt.logger.Warn("durable tier write-back failed", "key", k, "error", err)
		}
	}

	return value, nil
}

// Stats returns a snapshot of tier activity.
func (tt *TwoTier) Stats() Stats {
	return tt.stats.snapshot()
}
