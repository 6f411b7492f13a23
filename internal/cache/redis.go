package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"

	"github.com/serdal-zonemap/internal/enrich"
	"github.com/serdal-zonemap/internal/observability"
)

// Cache stores rendered map payloads. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Key identifies one rendered payload. The dataset version is part of the key so a
// reload with new tables never serves stale maps.
func Key(kind, version string, filter enrich.Filter, mode enrich.ViewMode) string {
	return fmt.Sprintf("zonemap:%s:%s:%s:%s:%s:%s", kind, version,
		url.QueryEscape(filter.UnitType), url.QueryEscape(filter.Rooms), url.QueryEscape(filter.Quarter), mode)
}

// RedisCache keeps snappy-compressed payloads in Redis with a fixed TTL.
type RedisCache struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedis connects a cache to a Redis server
func NewRedis(addr, pass string, db int, ttl time.Duration) *RedisCache {
	return NewRedisFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

// NewRedisFromClient wraps an existing client
func NewRedisFromClient(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{c: c, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveCache("redis", "error")
		return nil, false, err
	}
	payload, err := snappy.Decode(nil, v)
	if err != nil {
		observability.ObserveCache("redis", "error")
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	observability.ObserveCache("redis", "hit")
	return payload, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, payload []byte) error {
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, snappy.Encode(nil, payload), r.ttl).Err()
}

// Ping checks the Redis connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

// Close releases the client
func (r *RedisCache) Close() error {
	return r.c.Close()
}
