package upstream

import (
	"fmt"
	"net/url"
	"strings"
)

// Error is a non-2xx response from the upstream API. Status and Details are
// preserved so the proxy layer can mirror them back to the browser.
type Error struct {
	Status  int
	Message string
	Details any // parsed JSON body when possible, raw text otherwise
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: HTTP %d: %s", e.Status, e.Message)
}

// Filter values accepted by the events endpoint.
const (
	FilterNew      = "new"
	FilterLive     = "live"
	FilterTrending = "trending"
)

// EventQuery holds the query parameters forwarded to the events endpoint.
// Zero-valued fields are omitted.
type EventQuery struct {
	Category      string
	Filter        string // new | live | trending
	SortBy        string // volume | beginAt
	SortDirection string // asc | desc
	Start         string
	End           string
}

// Values renders the query. Inbound values are forwarded verbatim except the
// category, which is lower-cased, and the fixed provider/includeMarkets pair,
// which is always injected.
func (q EventQuery) Values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", strings.ToLower(q.Category))
	}
	if q.Filter != "" {
		v.Set("filter", q.Filter)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDirection != "" {
		v.Set("sortDirection", q.SortDirection)
	}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	v.Set("provider", "kalshi")
	v.Set("includeMarkets", "true")
	return v
}
