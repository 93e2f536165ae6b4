package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GurEtun/jupgate/internal/domain"
)

// ResponseCache implements domain.ResponseCache. Bodies are stored as plain
// string values under "resp:{key}", where key is the logical request URL.
type ResponseCache struct {
	rdb *redis.Client
}

// NewResponseCache creates a ResponseCache backed by the given Client.
func NewResponseCache(c *Client) *ResponseCache {
	return &ResponseCache{rdb: c.rdb}
}

func responseKey(key string) string { return "resp:" + key }

// Get returns the cached body for key, or domain.ErrCacheMiss when the key
// does not exist or has expired.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := rc.rdb.Get(ctx, responseKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: get response %s: %w", key, err)
	}
	return body, nil
}

// Set stores body under key with the given TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if err := rc.rdb.Set(ctx, responseKey(key), body, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set response %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the cache.
func (rc *ResponseCache) Delete(ctx context.Context, key string) error {
	if err := rc.rdb.Del(ctx, responseKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete response %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResponseCache = (*ResponseCache)(nil)
