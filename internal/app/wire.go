package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	redisc "github.com/GurEtun/jupgate/internal/cache/redis"
	"github.com/GurEtun/jupgate/internal/config"
	"github.com/GurEtun/jupgate/internal/domain"
	"github.com/GurEtun/jupgate/internal/engine"
	"github.com/GurEtun/jupgate/internal/fetch"
	"github.com/GurEtun/jupgate/internal/notify"
	"github.com/GurEtun/jupgate/internal/poller"
	"github.com/GurEtun/jupgate/internal/server/ws"
	"github.com/GurEtun/jupgate/internal/service"
	"github.com/GurEtun/jupgate/internal/upstream"
)

// Dependencies bundles everything the run loop needs. Constructed by Wire
// and torn down by the returned cleanup function.
type Dependencies struct {
	Engine      *engine.Simulator
	MarketData  *service.MarketData
	Upstream    *upstream.Client
	Hub         *ws.Hub
	Pollers     []*poller.Poller
	RateLimiter domain.RateLimiter
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Redis ---
	redisClient, err := redisc.New(ctx, redisc.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.RateLimiter = redisc.NewRateLimiter(redisClient)

	// --- Upstream + caching fetch layer ---
	deps.Upstream = upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIKey, cfg.Upstream.Timeout.Duration)
	fetcher := fetch.New(redisc.NewResponseCache(redisClient), logger)
	deps.MarketData = service.NewMarketData(deps.Upstream, fetcher, service.TTLConfig{
		Events: cfg.Cache.EventsTTL.Duration,
		Event:  cfg.Cache.EventTTL.Duration,
		Search: cfg.Cache.SearchTTL.Duration,
	}, logger)

	// --- Trading engine + push hub ---
	deps.Engine = engine.NewSimulator(logger)
	deps.Hub = ws.NewHub(logger)

	deps.Engine.AddTradeListener(func(order domain.Order, m domain.MarketMetrics) {
		payload, err := json.Marshal(map[string]any{
			"order":   order,
			"metrics": m,
		})
		if err != nil {
			return
		}
		deps.Hub.Publish("trades", payload)
	})

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewTradeNotifier(senders, cfg.Notify.MinNotionalUSD, logger)
	if notifier.Enabled() {
		deps.Engine.AddTradeListener(notifier.NotifyFill)
	}

	// --- Pollers feeding the hub ---
	if cfg.Poll.Enabled {
		deps.Pollers = append(deps.Pollers,
			poller.New("events", cfg.Poll.EventsInterval.Duration,
				func(ctx context.Context) ([]byte, error) {
					return deps.MarketData.Events(ctx, upstream.EventQuery{}, false)
				}, deps.Hub, logger),
			poller.New("events:trending", cfg.Poll.TrendingInterval.Duration,
				func(ctx context.Context) ([]byte, error) {
					return deps.MarketData.Events(ctx, upstream.EventQuery{Filter: upstream.FilterTrending}, false)
				}, deps.Hub, logger),
		)
	}

	return deps, cleanup, nil
}
