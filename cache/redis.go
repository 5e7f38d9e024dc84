package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studyhall/aibridge/configuration"
)

const (
	defaultPoolSize   = 10
	connectionTimeout = 5 * time.Second
)

// redisEnvelope is the stored representation of a durable entry. The write
// timestamp travels with the payload so staleness is judged against the
// writer's clock, the same way the ephemeral tier does.
type redisEnvelope struct {
	StoredAtMs int64           `json:"stored_at_ms"`
	Payload    json.RawMessage `json:"payload"`
}

// RedisStore implements DurableStore on Redis. Entries carry no Redis TTL:
// pruning is staleness-on-read only, performed by the resolver.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore creates a durable tier store and probes the connection.
// A probe failure returns an error so the caller can degrade gracefully to
// ephemeral-only caching.
func NewRedisStore(ctx context.Context, cfg configuration.CacheConfig, client *redis.Client) (*RedisStore, error) {
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: defaultPoolSize,
		})
	}

	probeCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()
	if err := client.Ping(probeCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection probe failed: %w", err)
	}

	return &RedisStore{
		client: client,
		logger: slog.Default().With("component", "cache_redis"),
	}, nil
}

// Get returns the payload and write timestamp stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Corrupted entries are dropped and reported as a miss so the next
		// successful resolve repairs them.
		s.logger.Warn("dropping corrupted cache entry", "key", key, "error", err)
		s.client.Del(ctx, key)
		return nil, time.Time{}, ErrNotFound
	}

	return env.Payload, time.UnixMilli(env.StoredAtMs), nil
}

// Upsert stores the payload under key, replacing any existing entry.
func (s *RedisStore) Upsert(ctx context.Context, key string, data []byte, writtenAt time.Time) error {
	env := redisEnvelope{StoredAtMs: writtenAt.UnixMilli(), Payload: data}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal cache entry %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
