// Package notify delivers trade notifications to external channels
// (Telegram, Discord). The notifier hangs off the trading engine as a trade
// listener and only fires for fills above a configured notional.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GurEtun/jupgate/internal/domain"
)

// Sender is the interface each notification channel implements.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender.
	Name() string
}

// TradeNotifier dispatches fill notifications to one or more Senders.
type TradeNotifier struct {
	senders     []Sender
	minNotional float64 // USD; fills below this are ignored
	logger      *slog.Logger
}

// NewTradeNotifier creates a TradeNotifier. Fills with a notional below
// minNotional are skipped; zero means notify on every fill.
func NewTradeNotifier(senders []Sender, minNotional float64, logger *slog.Logger) *TradeNotifier {
	return &TradeNotifier{
		senders:     senders,
		minNotional: minNotional,
		logger:      logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether any sender is configured.
func (n *TradeNotifier) Enabled() bool {
	return len(n.senders) > 0
}

// NotifyFill sends a fill notification for the given order. Individual
// sender failures are logged and do not block the remaining senders.
func (n *TradeNotifier) NotifyFill(order domain.Order, m domain.MarketMetrics) {
	if len(n.senders) == 0 || order.TotalCost < n.minNotional {
		return
	}

	title := fmt.Sprintf("Simulated fill: %s", order.MarketID)
	message := fmt.Sprintf(
		"%s %.0f shares @ %.2fc ($%.2f)\nmarket volume $%.2f over %d trades",
		strings.ToUpper(string(order.Outcome)),
		order.Shares, order.FilledPrice, order.TotalCost,
		m.TotalVolume, m.TotalTrades,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.Error("sender failed",
				slog.String("sender", s.Name()),
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		n.logger.Debug("notification sent",
			slog.String("sender", s.Name()),
			slog.String("order_id", order.ID),
		)
	}
}
