package domain

import (
	"context"
	"time"
)

// ResponseCache stores raw upstream response bodies keyed by request URL.
type ResponseCache interface {
	// Get returns the cached body for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores body under key with the given TTL.
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	// Delete removes key from the cache.
	Delete(ctx context.Context, key string) error
}

// RateLimiter checks whether a request identified by key is allowed under
// a limit of `limit` requests per `window`.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
