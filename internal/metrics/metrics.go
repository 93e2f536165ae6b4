// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP surface
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupgate_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jupgate_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Trading engine
	TradesExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupgate_trades_executed_total",
			Help: "Total number of simulated trades executed",
		},
		[]string{"outcome"}, // yes, no
	)

	TradeVolume = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jupgate_trade_volume_usd_total",
			Help: "Total simulated trade volume in USD",
		},
	)

	// Response cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupgate_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"result"}, // hit, miss, bypass
	)

	// Upstream API
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jupgate_upstream_errors_total",
			Help: "Total number of failed upstream API calls",
		},
		[]string{"resource"},
	)

	// WebSocket hub
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jupgate_ws_clients",
			Help: "Number of connected WebSocket clients",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method string, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, status).Inc()
	HTTPRequestDuration.Observe(duration.Seconds())
}

// RecordTrade records one simulated execution.
func RecordTrade(outcome string, notionalUSD float64) {
	TradesExecuted.WithLabelValues(outcome).Inc()
	TradeVolume.Add(notionalUSD)
}
