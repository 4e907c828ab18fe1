package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const cacheKeyPrefix = "search:term:"

// Cache is a Redis-backed read-through cache for search results keyed by
// simplified term. Failures on either side degrade to a miss; the cache is
// an optimization, not part of the search contract.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCache creates a cache over the given Redis client.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.With().Str("component", "search_cache").Logger(),
	}
}

// Get returns the cached products for a term, if present.
func (c *Cache) Get(ctx context.Context, term string) ([]RawProduct, bool) {
	data, err := c.rdb.Get(ctx, cacheKeyPrefix+term).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Str("term", term).Msg("cache read failed")
		}
		return nil, false
	}

	var products []RawProduct
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Debug().Err(err).Str("term", term).Msg("cache entry corrupt")
		return nil, false
	}
	return products, true
}

// Set stores products for a term, best effort.
func (c *Cache) Set(ctx context.Context, term string, products []RawProduct) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+term, data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Str("term", term).Msg("cache write failed")
	}
}
