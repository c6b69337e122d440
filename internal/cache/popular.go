// Package cache provides a Redis-backed cache for popularity listings.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/parleyhq/parley/internal/discovery"
	"github.com/redis/go-redis/v9"
)

// PopularCache caches ranked popularity listings per (time frame, limit)
// pair. A nil client disables the cache: every lookup misses and writes are
// dropped, so callers never need to branch on whether Redis is configured.
type PopularCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPopularCache(client *redis.Client, ttl time.Duration) *PopularCache {
	return &PopularCache{client: client, ttl: ttl}
}

// NewPopularCacheFromURL connects to Redis using a URL like
// redis://host:6379/0. Returns a disabled cache when the URL is empty.
func NewPopularCacheFromURL(url string, ttl time.Duration) (*PopularCache, error) {
	if url == "" {
		return &PopularCache{}, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return &PopularCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

func (c *PopularCache) key(frame discovery.TimeFrame, limit int) string {
	return fmt.Sprintf("parley:popular:%s:%d", frame, limit)
}

// Get returns the cached listing for the frame, or nil on a miss.
func (c *PopularCache) Get(ctx context.Context, frame discovery.TimeFrame, limit int) ([]*discovery.RankedResult, error) {
	if c.client == nil {
		return nil, nil
	}

	payload, err := c.client.Get(ctx, c.key(frame, limit)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var results []*discovery.RankedResult
	if err := json.Unmarshal(payload, &results); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the
		// next Set.
		log.Printf("popular cache: discarding corrupt entry %s: %v", c.key(frame, limit), err)
		return nil, nil
	}
	return results, nil
}

// Set stores the listing for the frame under the configured TTL.
func (c *PopularCache) Set(ctx context.Context, frame discovery.TimeFrame, limit int, results []*discovery.RankedResult) error {
	if c.client == nil {
		return nil
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(frame, limit), payload, c.ttl).Err()
}

// Ping verifies connectivity. Disabled caches always report healthy.
func (c *PopularCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (c *PopularCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
