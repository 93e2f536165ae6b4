package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GurEtun/jupgate/internal/config"
	"github.com/GurEtun/jupgate/internal/server"
	"github.com/GurEtun/jupgate/internal/server/handler"
)

// App owns the wired dependency graph and drives the HTTP server, the
// websocket hub and the background pollers until the context is cancelled.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	deps    *Dependencies
	cleanup func()
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	deps, cleanup, err := Wire(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &App{
		cfg:     cfg,
		logger:  logger,
		deps:    deps,
		cleanup: cleanup,
	}, nil
}

// Run blocks until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(a.logger),
		Events:  handler.NewEventHandler(a.deps.MarketData, a.logger),
		Orders:  handler.NewOrderHandler(a.deps.Upstream, a.deps.Engine, a.logger),
		Trades:  handler.NewTradeHandler(a.deps.Engine, a.logger),
		Markets: handler.NewMarketHandler(a.logger),
	}

	srv := server.New(server.Config{
		Port:          a.cfg.Server.Port,
		AllowedOrigin: a.cfg.Server.AllowedOrigin,
		RateLimit:     a.cfg.Server.RateLimit,
		RateWindow:    a.cfg.Server.RateWindow.Duration,
	}, handlers, a.deps.Hub, a.deps.RateLimiter, a.logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.deps.Hub.Run(gctx)
	})

	for _, p := range a.deps.Pollers {
		p := p
		g.Go(func() error {
			return p.RunLoop(gctx)
		})
	}

	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("app: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown", slog.String("error", err.Error()))
		}
		return gctx.Err()
	})

	return g.Wait()
}

// Close releases all resources acquired during Wire.
func (a *App) Close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}
