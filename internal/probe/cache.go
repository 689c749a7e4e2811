package probe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "tbinfo:probe:"

// Cache stores backend responses in Redis. Tablebase verdicts never
// change, so entries only expire to bound memory use.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewCache wraps a Redis client as a probe response cache.
func NewCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

// Get returns the cached response body for a request URI, if any. Cache
// errors degrade to misses.
func (c *Cache) Get(ctx context.Context, uri string) ([]byte, bool) {
	body, err := c.rdb.Get(ctx, cacheKeyPrefix+uri).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("uri", uri).Msg("probe cache read failed")
		return nil, false
	}
	return body, true
}

// Set stores a response body. Failures are logged and dropped; the
// backend answer has already been served.
func (c *Cache) Set(ctx context.Context, uri string, body []byte) {
	if err := c.rdb.Set(ctx, cacheKeyPrefix+uri, body, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("uri", uri).Msg("probe cache write failed")
	}
}
