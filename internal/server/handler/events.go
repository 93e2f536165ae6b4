package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/GurEtun/jupgate/internal/upstream"
)

// EventSource defines what the event handler needs from the market-data
// service. Declared locally so the handler package does not depend on the
// concrete service implementation.
type EventSource interface {
	Events(ctx context.Context, q upstream.EventQuery, fresh bool) ([]byte, error)
	Event(ctx context.Context, eventID string, fresh bool) ([]byte, error)
	EventMarkets(ctx context.Context, eventID, marketID string, fresh bool) ([]byte, error)
	Search(ctx context.Context, query string, fresh bool) ([]byte, error)
}

// EventHandler serves the proxied event endpoints.
type EventHandler struct {
	events EventSource
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler with the given source and logger.
func NewEventHandler(events EventSource, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		logger: logger,
	}
}

// ListEvents proxies the event list.
// GET /api/jup/events?category=&filter=&sortBy=&sortDirection=&start=&end=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := upstream.EventQuery{
		Category:      q.Get("category"),
		Filter:        q.Get("filter"),
		SortBy:        q.Get("sortBy"),
		SortDirection: q.Get("sortDirection"),
		Start:         q.Get("start"),
		End:           q.Get("end"),
	}

	body, err := h.events.Events(r.Context(), query, wantsFresh(r))
	if err != nil {
		writeUpstreamError(w, h.logger, r, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

// GetEvent proxies a single event with its nested markets.
// GET /api/jup/events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "eventId")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event id")
		return
	}

	body, err := h.events.Event(r.Context(), eventID, wantsFresh(r))
	if err != nil {
		writeUpstreamError(w, h.logger, r, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

// ListEventMarkets proxies the markets under an event.
// GET /api/jup/events/{eventId}/markets[/{marketId}]
func (h *EventHandler) ListEventMarkets(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "eventId")
	if eventID == "" {
		writeError(w, http.StatusBadRequest, "missing event id")
		return
	}
	marketID := pathParam(r, "marketId")

	body, err := h.events.EventMarkets(r.Context(), eventID, marketID, wantsFresh(r))
	if err != nil {
		writeUpstreamError(w, h.logger, r, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}

// SearchEvents proxies the event search endpoint.
// GET /api/jup/events/search?query=
func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	body, err := h.events.Search(r.Context(), query, wantsFresh(r))
	if err != nil {
		writeUpstreamError(w, h.logger, r, err)
		return
	}

	writeRaw(w, http.StatusOK, body)
}
