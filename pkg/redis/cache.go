package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides JSON-typed caching under a key prefix
// ⭐ SSOT: cache helpers live here
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A miss is (false, nil); a corrupted entry is
// deleted and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := c.fullKey(key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		_ = c.client.Redis().Del(ctx, fullKey).Err()
		return false, nil
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	return c.client.Redis().Del(ctx, c.fullKey(key)).Err()
}

// DeletePrefix removes every cached value whose key starts with keyPrefix
// and returns how many were removed
func (c *Cache) DeletePrefix(ctx context.Context, keyPrefix string) (int, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	pattern := c.fullKey(keyPrefix) + "*"
	removed := 0
	var cursor uint64
	for {
		keys, next, err := c.client.Redis().Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return removed, fmt.Errorf("cache scan failed: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Redis().Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("cache delete failed: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// PriceSeriesPrefix is the key prefix shared by every cached price series
const PriceSeriesPrefix = "prices:"

// Predefined TTLs
const (
	TTLShort = 10 * time.Minute // listings, overview lookups
	TTLDaily = 24 * time.Hour   // monthly price series
)

// PriceSeriesKey identifies a price query by its company set and month window.
// The id order does not matter.
func PriceSeriesKey(ids []int64, start, end time.Time) string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s%s:%s:%s", PriceSeriesPrefix, strings.Join(parts, ","), start.Format("2006-01"), end.Format("2006-01"))
}

// CompanyKey identifies a cached company overview by symbol
func CompanyKey(symbol string) string {
	return fmt.Sprintf("company:%s", strings.ToUpper(symbol))
}
