// Package config defines the gateway configuration and validation helpers.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by JUPGATE_* environment
// variables.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Redis    RedisConfig    `toml:"redis"`
	Cache    CacheConfig    `toml:"cache"`
	Poll     PollConfig     `toml:"poll"`
	Notify   NotifyConfig   `toml:"notify"`
	LogLevel string         `toml:"log_level"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port          int      `toml:"port"`
	AllowedOrigin string   `toml:"allowed_origin"`
	RateLimit     int      `toml:"rate_limit"` // requests per window per client IP; 0 disables
	RateWindow    duration `toml:"rate_window"`
}

// UpstreamConfig holds the aggregator API endpoint and credentials.
type UpstreamConfig struct {
	BaseURL string   `toml:"base_url"`
	APIKey  string   `toml:"api_key"`
	Timeout duration `toml:"timeout"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
}

// CacheConfig holds per-resource response cache TTLs.
type CacheConfig struct {
	EventsTTL duration `toml:"events_ttl"`
	EventTTL  duration `toml:"event_ttl"`
	SearchTTL duration `toml:"search_ttl"`
}

// PollConfig holds the fixed polling intervals for the push channels.
type PollConfig struct {
	Enabled          bool     `toml:"enabled"`
	EventsInterval   duration `toml:"events_interval"`
	TrendingInterval duration `toml:"trending_interval"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string  `toml:"telegram_token"`
	TelegramChatID    string  `toml:"telegram_chat_id"`
	DiscordWebhookURL string  `toml:"discord_webhook_url"`
	MinNotionalUSD    float64 `toml:"min_notional_usd"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:          8080,
			AllowedOrigin: "*",
			RateLimit:     0,
			RateWindow:    duration{time.Second},
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://prediction-markets-api.jup.ag/v1",
			Timeout: duration{30 * time.Second},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			DB:       0,
			PoolSize: 20,
		},
		Cache: CacheConfig{
			EventsTTL: duration{60 * time.Second},
			EventTTL:  duration{30 * time.Second},
			SearchTTL: duration{30 * time.Second},
		},
		Poll: PollConfig{
			Enabled:          true,
			EventsInterval:   duration{60 * time.Second},
			TrendingInterval: duration{30 * time.Second},
		},
		Notify: NotifyConfig{
			MinNotionalUSD: 1000,
		},
		LogLevel: "info",
	}
}

// Validate checks the configuration for values the gateway cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("config: upstream.base_url is required")
	}
	if c.Server.RateLimit > 0 && c.Server.RateWindow.Duration <= 0 {
		return fmt.Errorf("config: server.rate_window must be positive when rate limiting is enabled")
	}
	if c.Poll.Enabled {
		if c.Poll.EventsInterval.Duration <= 0 || c.Poll.TrendingInterval.Duration <= 0 {
			return fmt.Errorf("config: poll intervals must be positive when polling is enabled")
		}
	}
	for name, ttl := range map[string]time.Duration{
		"cache.events_ttl": c.Cache.EventsTTL.Duration,
		"cache.event_ttl":  c.Cache.EventTTL.Duration,
		"cache.search_ttl": c.Cache.SearchTTL.Duration,
	} {
		if ttl <= 0 {
			return fmt.Errorf("config: %s must be positive", name)
		}
	}
	return nil
}
