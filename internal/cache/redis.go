package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 10 * time.Minute
	keyPrefix  = "tmdb:"
)

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func popularKey(page int) string {
	return fmt.Sprintf("%spopular:page:%d", keyPrefix, page)
}

func searchKey(query string, page int) string {
	q := url.QueryEscape(strings.ToLower(strings.TrimSpace(query)))
	return fmt.Sprintf("%ssearch:%s:page:%d", keyPrefix, q, page)
}

func movieKey(movieID int64) string {
	return fmt.Sprintf("%smovie:%d", keyPrefix, movieID)
}

// Get decodes the value at key into dst. A missing key reports found=false
// with a nil error.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("unmarshal cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores v as JSON under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s in cache: %w", key, err)
	}
	return nil
}

// Clear deletes every cached response whose key starts with the given
// sub-prefix ("" clears all, "search:" clears searches) and returns how
// many keys went away.
func (c *Cache) Clear(ctx context.Context, prefix string) (int, error) {
	pattern := keyPrefix + prefix + "*"
	deleted := 0
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
		deleted++
	}
	return deleted, iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
