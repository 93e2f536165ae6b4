// Package server assembles the gateway's HTTP surface: proxied event routes,
// the simulated trading endpoints, fixture market data, Prometheus metrics,
// and the WebSocket hub, behind the CORS / rate-limit / logging chain.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GurEtun/jupgate/internal/domain"
	"github.com/GurEtun/jupgate/internal/server/handler"
	"github.com/GurEtun/jupgate/internal/server/middleware"
	"github.com/GurEtun/jupgate/internal/server/ws"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port          int
	AllowedOrigin string
	RateLimit     int // requests per RateWindow per client IP; 0 disables
	RateWindow    time.Duration
}

// Handlers aggregates the HTTP handlers the server registers.
type Handlers struct {
	Health  *handler.HealthHandler
	Events  *handler.EventHandler
	Orders  *handler.OrderHandler
	Trades  *handler.TradeHandler
	Markets *handler.MarketHandler
}

// Server is the gateway HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes registered and the middleware chain
// applied. limiter may be nil when rate limiting is disabled.
func New(cfg Config, handlers Handlers, hub *ws.Hub, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Proxied event endpoints. /events/search is a literal segment and takes
	// precedence over the {eventId} wildcard.
	mux.HandleFunc("GET /api/jup/events", handlers.Events.ListEvents)
	mux.HandleFunc("GET /api/jup/events/search", handlers.Events.SearchEvents)
	mux.HandleFunc("GET /api/jup/events/{eventId}", handlers.Events.GetEvent)
	mux.HandleFunc("GET /api/jup/events/{eventId}/markets", handlers.Events.ListEventMarkets)
	mux.HandleFunc("GET /api/jup/events/{eventId}/markets/{marketId}", handlers.Events.ListEventMarkets)

	// Order passthrough plus the local simulated-order status lookup.
	mux.HandleFunc("/api/jup/orders", handlers.Orders.Proxy)
	mux.HandleFunc("/api/jup/orders/{rest...}", handlers.Orders.Proxy)
	mux.HandleFunc("GET /api/jup/orders/status/{orderPubkey}", handlers.Orders.Status)

	// Simulated trading.
	mux.HandleFunc("POST /api/trades/execute", handlers.Trades.Execute)
	mux.HandleFunc("GET /api/trades/metrics/{marketId}", handlers.Trades.Metrics)
	mux.HandleFunc("GET /api/trades/orders", handlers.Trades.ListOrders)

	// Fixture market data.
	mux.HandleFunc("GET /api/markets/{marketId}/history", handlers.Markets.History)
	mux.HandleFunc("GET /api/markets/{marketId}/orderbook", handlers.Markets.Orderbook)
	mux.HandleFunc("GET /api/markets/{marketId}/trades", handlers.Markets.Trades)

	// Observability and push.
	mux.Handle("GET /metrics", promhttp.Handler())
	if hub != nil {
		mux.HandleFunc("GET /ws", hub.HandleWS)
	}

	// Middleware chain, innermost first.
	var h http.Handler = mux
	h = middleware.Logging(logger)(h)
	if limiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow)(h)
	}
	h = middleware.CORS(cfg.AllowedOrigin)(h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
