// Package poller runs fixed-interval resource polls and publishes changed
// payloads to subscribers. This is the scheduled-polling abstraction behind
// the push surface: timer, fetch, diff, notify. No socket machinery on the
// upstream side.
package poller

import (
	"bytes"
	"context"
	"log/slog"
	"time"
)

// Publisher receives changed payloads, keyed by channel name.
type Publisher interface {
	Publish(channel string, payload []byte)
}

// Fetch loads the current payload for the polled resource.
type Fetch func(ctx context.Context) ([]byte, error)

// Poller polls one resource on a fixed interval and publishes the payload
// whenever it differs from the previous run.
type Poller struct {
	channel  string
	interval time.Duration
	fetch    Fetch
	pub      Publisher
	logger   *slog.Logger
	last     []byte
}

// New creates a Poller that publishes to channel on pub every interval.
func New(channel string, interval time.Duration, fetch Fetch, pub Publisher, logger *slog.Logger) *Poller {
	return &Poller{
		channel:  channel,
		interval: interval,
		fetch:    fetch,
		pub:      pub,
		logger: logger.With(
			slog.String("component", "poller"),
			slog.String("channel", channel),
		),
	}
}

// Run executes a single poll cycle.
func (p *Poller) Run(ctx context.Context) error {
	payload, err := p.fetch(ctx)
	if err != nil {
		return err
	}

	if bytes.Equal(payload, p.last) {
		return nil
	}

	p.last = payload
	p.pub.Publish(p.channel, payload)
	p.logger.Debug("published update", slog.Int("bytes", len(payload)))
	return nil
}

// RunLoop polls immediately, then on every interval tick until the context
// is cancelled. Fetch errors are logged and the loop keeps going.
func (p *Poller) RunLoop(ctx context.Context) error {
	if err := p.Run(ctx); err != nil {
		p.logger.Error("poll failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := p.Run(ctx); err != nil {
				p.logger.Error("poll failed", slog.String("error", err.Error()))
			}
		}
	}
}
