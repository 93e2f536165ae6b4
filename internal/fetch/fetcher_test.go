package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GurEtun/jupgate/internal/domain"
)

// memCache is an in-memory domain.ResponseCache for tests. TTLs are
// recorded but not enforced.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	body, ok := c.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return body, nil
}

func (c *memCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

var _ domain.ResponseCache = (*memCache)(nil)

func newTestFetcher(cache domain.ResponseCache) *Fetcher {
	return New(cache, slog.New(slog.DiscardHandler))
}

func TestDoCacheHitSkipsOrigin(t *testing.T) {
	cache := newMemCache()
	cache.Set(context.Background(), "k", []byte("cached"), time.Minute)
	f := newTestFetcher(cache)

	called := false
	body, err := f.Do(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		called = true
		return []byte("origin"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "cached" {
		t.Errorf("body = %s", body)
	}
	if called {
		t.Error("origin must not be called on a cache hit")
	}
}

func TestDoMissFillsCache(t *testing.T) {
	cache := newMemCache()
	f := newTestFetcher(cache)

	body, err := f.Do(context.Background(), "k", 30*time.Second, func(ctx context.Context) ([]byte, error) {
		return []byte("origin"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "origin" {
		t.Errorf("body = %s", body)
	}
	if string(cache.entries["k"]) != "origin" {
		t.Errorf("cache entry = %s", cache.entries["k"])
	}
	if cache.ttls["k"] != 30*time.Second {
		t.Errorf("ttl = %v", cache.ttls["k"])
	}
}

func TestDoFreshBypassesCache(t *testing.T) {
	cache := newMemCache()
	cache.Set(context.Background(), "k", []byte("stale"), time.Minute)
	f := newTestFetcher(cache)

	body, err := f.DoFresh(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "fresh" {
		t.Errorf("body = %s", body)
	}
	if string(cache.entries["k"]) != "fresh" {
		t.Errorf("cache entry = %s, want refreshed", cache.entries["k"])
	}
}

func TestDoOriginErrorNotCached(t *testing.T) {
	cache := newMemCache()
	f := newTestFetcher(cache)

	wantErr := errors.New("upstream down")
	_, err := f.Do(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := cache.entries["k"]; ok {
		t.Error("errors must not be cached")
	}
}

func TestDoDegradesWhenCacheUnavailable(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("redis down")
	f := newTestFetcher(cache)

	body, err := f.Do(context.Background(), "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return []byte("origin"), nil
	})
	if err != nil {
		t.Fatalf("cache failure must fall through to origin: %v", err)
	}
	if string(body) != "origin" {
		t.Errorf("body = %s", body)
	}
}

func TestDoCoalescesConcurrentMisses(t *testing.T) {
	cache := newMemCache()
	f := newTestFetcher(cache)

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("origin"), nil
	}

	const n = 10
	var wg sync.WaitGroup
	results := make([][]byte, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, err := f.Do(context.Background(), "k", time.Minute, fn)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = body
		}(i)
	}

	// Give the goroutines a chance to pile onto the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("origin calls = %d, want 1", got)
	}
	for i, body := range results {
		if string(body) != "origin" {
			t.Errorf("result[%d] = %s", i, body)
		}
	}
}
