package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies environment variable overrides, and returns the
// final Config. A missing file is not an error; defaults plus environment
// are used. The returned Config has NOT been validated; the caller should
// invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known environment variables and overwrites
// the corresponding Config fields when a variable is set. JUPITER_API_KEY
// and ALLOWED_ORIGIN are the names the hosting platform sets; the JUPGATE_*
// names cover the rest.
func applyEnvOverrides(cfg *Config) {
	// Platform-level variables.
	setStr(&cfg.Upstream.APIKey, "JUPITER_API_KEY")
	setStr(&cfg.Server.AllowedOrigin, "ALLOWED_ORIGIN")

	// ── Server ──
	setInt(&cfg.Server.Port, "JUPGATE_SERVER_PORT")
	setStr(&cfg.Server.AllowedOrigin, "JUPGATE_SERVER_ALLOWED_ORIGIN")
	setInt(&cfg.Server.RateLimit, "JUPGATE_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "JUPGATE_SERVER_RATE_WINDOW")

	// ── Upstream ──
	setStr(&cfg.Upstream.BaseURL, "JUPGATE_UPSTREAM_BASE_URL")
	setStr(&cfg.Upstream.APIKey, "JUPGATE_UPSTREAM_API_KEY")
	setDuration(&cfg.Upstream.Timeout, "JUPGATE_UPSTREAM_TIMEOUT")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "JUPGATE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "JUPGATE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "JUPGATE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "JUPGATE_REDIS_POOL_SIZE")

	// ── Cache ──
	setDuration(&cfg.Cache.EventsTTL, "JUPGATE_CACHE_EVENTS_TTL")
	setDuration(&cfg.Cache.EventTTL, "JUPGATE_CACHE_EVENT_TTL")
	setDuration(&cfg.Cache.SearchTTL, "JUPGATE_CACHE_SEARCH_TTL")

	// ── Poll ──
	setBool(&cfg.Poll.Enabled, "JUPGATE_POLL_ENABLED")
	setDuration(&cfg.Poll.EventsInterval, "JUPGATE_POLL_EVENTS_INTERVAL")
	setDuration(&cfg.Poll.TrendingInterval, "JUPGATE_POLL_TRENDING_INTERVAL")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "JUPGATE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "JUPGATE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "JUPGATE_NOTIFY_DISCORD_WEBHOOK_URL")
	setFloat64(&cfg.Notify.MinNotionalUSD, "JUPGATE_NOTIFY_MIN_NOTIONAL_USD")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "JUPGATE_LOG_LEVEL")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
