// Package fetch implements the caching fetch layer in front of the upstream
// API: cache-first reads with per-resource TTLs, coalescing of concurrent
// misses for the same key, and a bypass path for forced refreshes.
package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GurEtun/jupgate/internal/domain"
	"github.com/GurEtun/jupgate/internal/metrics"
)

// Func loads a resource from its origin.
type Func func(ctx context.Context) ([]byte, error)

// Fetcher wraps a ResponseCache with singleflight request deduplication.
// Within the lifetime of one origin call, all concurrent requests for the
// same key share that call's result, so a burst of identical requests costs
// a single upstream round trip.
type Fetcher struct {
	cache  domain.ResponseCache
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a Fetcher backed by cache.
func New(cache domain.ResponseCache, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		cache:  cache,
		logger: logger.With(slog.String("component", "fetch")),
	}
}

// Do returns the body for key: from the cache when fresh, otherwise from fn,
// storing the result with the given TTL. Origin errors are returned to every
// coalesced caller and never cached.
func (f *Fetcher) Do(ctx context.Context, key string, ttl time.Duration, fn Func) ([]byte, error) {
	body, err := f.cache.Get(ctx, key)
	if err == nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return body, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		// Cache unavailable: degrade to the origin rather than failing.
		f.logger.WarnContext(ctx, "cache get failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	return f.fill(ctx, key, ttl, fn)
}

// DoFresh bypasses the freshness check for the forced-revalidation path but
// still coalesces concurrent calls and refreshes the cached entry.
func (f *Fetcher) DoFresh(ctx context.Context, key string, ttl time.Duration, fn Func) ([]byte, error) {
	metrics.CacheLookups.WithLabelValues("bypass").Inc()
	return f.fill(ctx, key, ttl, fn)
}

func (f *Fetcher) fill(ctx context.Context, key string, ttl time.Duration, fn Func) ([]byte, error) {
	v, err, _ := f.group.Do(key, func() (any, error) {
		body, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if cacheErr := f.cache.Set(ctx, key, body, ttl); cacheErr != nil {
			f.logger.WarnContext(ctx, "cache set failed",
				slog.String("key", key),
				slog.String("error", cacheErr.Error()),
			)
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
