package data

import (
	"context"
	"time"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/pkg/logger"
	"github.com/wonny/stockpick/pkg/redis"
)

// CachedPrices serves repeated price queries from Redis.
// Cache failures are logged and fall through to the wrapped provider.
type CachedPrices struct {
	next   contracts.PriceSeriesProvider
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedPrices wraps next with a Redis cache; ttl <= 0 uses redis.TTLDaily
func NewCachedPrices(next contracts.PriceSeriesProvider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedPrices {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedPrices{next: next, cache: cache, ttl: ttl, logger: log}
}

// Fetch returns the cached rows for the query or loads and caches them
func (c *CachedPrices) Fetch(ctx context.Context, ids []int64, start, end time.Time) ([]contracts.PricePoint, error) {
	key := redis.PriceSeriesKey(ids, start, end)

	var cached []contracts.PricePoint
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Price cache read failed")
	}
	if found {
		c.logger.WithField("key", key).Debug("Price cache hit")
		return cached, nil
	}

	points, err := c.next.Fetch(ctx, ids, start, end)
	if err != nil {
		return nil, err
	}

	// empty results are not cached so a later load shows up immediately
	if len(points) > 0 {
		if err := c.cache.Set(ctx, key, points, c.ttl); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Price cache write failed")
		}
	}
	return points, nil
}

// Invalidate drops the cached rows of one query
func (c *CachedPrices) Invalidate(ctx context.Context, ids []int64, start, end time.Time) error {
	return c.cache.Delete(ctx, redis.PriceSeriesKey(ids, start, end))
}
