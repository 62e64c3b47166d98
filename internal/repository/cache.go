package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchCache is a redis-backed cache for catalog search responses.
// It is nil-safe end to end: with no redis behind it every Get is a
// miss and every Set a no-op, so a cache outage never fails a request.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache creates a SearchCache. client may be nil.
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// Get returns the cached value for key, or false on a miss. Transport
// errors count as misses.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("search cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	return value, true
}

// Set stores value under key with the cache's TTL.
func (c *SearchCache) Set(ctx context.Context, key string, value []byte) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		slog.Warn("search cache write failed", "key", key, "error", err)
	}
}
