// Package service composes the upstream client with the caching fetch layer.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/GurEtun/jupgate/internal/fetch"
	"github.com/GurEtun/jupgate/internal/metrics"
	"github.com/GurEtun/jupgate/internal/upstream"
)

// TTLConfig holds the cache lifetime per logical resource.
type TTLConfig struct {
	Events time.Duration // event lists (rarely-changing)
	Event  time.Duration // single event with nested markets
	Search time.Duration
}

// MarketData serves upstream reads through the response cache. Cache keys
// are the upstream request URLs, so equivalent requests share entries.
type MarketData struct {
	client  *upstream.Client
	fetcher *fetch.Fetcher
	ttl     TTLConfig
	logger  *slog.Logger
}

// NewMarketData creates a MarketData service.
func NewMarketData(client *upstream.Client, fetcher *fetch.Fetcher, ttl TTLConfig, logger *slog.Logger) *MarketData {
	return &MarketData{
		client:  client,
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "marketdata")),
	}
}

// Events returns the event list for the query. fresh bypasses the cache.
func (s *MarketData) Events(ctx context.Context, q upstream.EventQuery, fresh bool) ([]byte, error) {
	key := "events?" + q.Values().Encode()
	return s.do(ctx, "events", key, s.ttl.Events, fresh, func(ctx context.Context) ([]byte, error) {
		return s.client.GetEvents(ctx, q)
	})
}

// Event returns a single event with nested markets.
func (s *MarketData) Event(ctx context.Context, eventID string, fresh bool) ([]byte, error) {
	key := "events/" + eventID
	return s.do(ctx, "event", key, s.ttl.Event, fresh, func(ctx context.Context) ([]byte, error) {
		return s.client.GetEvent(ctx, eventID)
	})
}

// EventMarkets returns the markets under an event, optionally narrowed to a
// single market.
func (s *MarketData) EventMarkets(ctx context.Context, eventID, marketID string, fresh bool) ([]byte, error) {
	key := "events/" + eventID + "/markets"
	if marketID != "" {
		key += "/" + marketID
	}
	return s.do(ctx, "markets", key, s.ttl.Event, fresh, func(ctx context.Context) ([]byte, error) {
		return s.client.GetEventMarkets(ctx, eventID, marketID)
	})
}

// Search returns events matching the free-text query.
func (s *MarketData) Search(ctx context.Context, query string, fresh bool) ([]byte, error) {
	key := "events/search?query=" + query
	return s.do(ctx, "search", key, s.ttl.Search, fresh, func(ctx context.Context) ([]byte, error) {
		return s.client.SearchEvents(ctx, query)
	})
}

func (s *MarketData) do(ctx context.Context, resource, key string, ttl time.Duration, fresh bool, fn fetch.Func) ([]byte, error) {
	var body []byte
	var err error
	if fresh {
		body, err = s.fetcher.DoFresh(ctx, key, ttl, fn)
	} else {
		body, err = s.fetcher.Do(ctx, key, ttl, fn)
	}
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(resource).Inc()
		return nil, err
	}
	return body, nil
}
