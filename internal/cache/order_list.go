package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/marketplace/internal/repository"
)

const generationKey = "orders:list:gen"

// OrderListCache caches order list pages in redis.
//
// Keys embed a generation counter. Every committed order transition bumps the
// counter, so pages written under an older generation are never read again and
// simply expire. A reader must fetch the generation before querying the database.
type OrderListCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewOrderListCache builds a cache on top of the provided redis client.
func NewOrderListCache(client *redis.Client, ttl time.Duration) *OrderListCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &OrderListCache{client: client, ttl: ttl}
}

// Key returns the cache key for filter under the current generation.
func (c *OrderListCache) Key(ctx context.Context, filter repository.OrderFilter) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("orders:list:%d:b%d:s%d:%s:%d:%d",
		gen, filter.BuyerID, filter.SellerID, filter.Status, filter.Limit, filter.Offset), nil
}

// Get decodes the cached page into dest. It reports false on miss or decode error.
func (c *OrderListCache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		c.misses.Add(1)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.misses.Add(1)
		return false
	}
	c.hits.Add(1)
	return true
}

// Set stores value under key with the configured TTL.
func (c *OrderListCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// Invalidate starts a new generation.
func (c *OrderListCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

// Counters reports cache hits and misses since start.
func (c *OrderListCache) Counters() CacheCounters {
	return CacheCounters{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// CacheCounters summarises cache lookups.
type CacheCounters struct {
	Hits   int64
	Misses int64
}
