package domain

import (
	"fmt"
	"time"
)

// Outcome is one of the two sides of a binary prediction market.
type Outcome string

const (
	OutcomeYes Outcome = "yes"
	OutcomeNo  Outcome = "no"
)

// OrderStatus tracks the order lifecycle. The simulated engine only ever
// produces OrderStatusFilled; the remaining states are part of the declared
// wire shape and are currently unreachable.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusPartial  OrderStatus = "partial"
	OrderStatusRejected OrderStatus = "rejected"
)

// Trade request bounds enforced by the HTTP layer.
const (
	MaxShares     = 1_000_000
	MinPriceCents = 1.0
	MaxPriceCents = 99.0
	MaxSlippage   = 10.0
)

// Order is a simulated trade record. Orders are immutable once created and
// live only in process memory.
type Order struct {
	ID          string      `json:"orderId"`
	MarketID    string      `json:"marketId"`
	Outcome     Outcome     `json:"outcome"`
	Shares      float64     `json:"shares"`
	FilledPrice float64     `json:"filledPrice"` // cents of a $1 settlement token, [1,99]
	TotalCost   float64     `json:"totalCost"`   // shares * filledPrice / 100, in dollars
	Status      OrderStatus `json:"status"`
	UserAddress string      `json:"userAddress,omitempty"`
	CreatedAt   time.Time   `json:"timestamp"`
}

// TradeRequest is the body of a trade-execute call.
type TradeRequest struct {
	MarketID    string   `json:"marketId"`
	Outcome     Outcome  `json:"outcome"`
	Shares      float64  `json:"shares"`
	PriceLimit  *float64 `json:"priceLimit,omitempty"` // cents, [1,99]
	Slippage    *float64 `json:"slippage,omitempty"`   // [0,10]
	UserAddress string   `json:"userAddress,omitempty"`
}

// Validate checks the request bounds. The engine assumes requests have
// already passed this check; it is called by the HTTP layer.
func (r TradeRequest) Validate() error {
	if r.MarketID == "" {
		return fmt.Errorf("%w: marketId is required", ErrInvalidTrade)
	}
	if r.Outcome != OutcomeYes && r.Outcome != OutcomeNo {
		return fmt.Errorf("%w: outcome must be %q or %q", ErrInvalidTrade, OutcomeYes, OutcomeNo)
	}
	if r.Shares <= 0 || r.Shares > MaxShares {
		return fmt.Errorf("%w: shares must be in (0, %d]", ErrInvalidTrade, MaxShares)
	}
	if r.PriceLimit != nil && (*r.PriceLimit < MinPriceCents || *r.PriceLimit > MaxPriceCents) {
		return fmt.Errorf("%w: priceLimit must be in [%g, %g]", ErrInvalidTrade, MinPriceCents, MaxPriceCents)
	}
	if r.Slippage != nil && (*r.Slippage < 0 || *r.Slippage > MaxSlippage) {
		return fmt.Errorf("%w: slippage must be in [0, %g]", ErrInvalidTrade, MaxSlippage)
	}
	return nil
}

// TradeResult wraps the order produced by a simulated execution. Success is
// always true in the current engine; there is no rejection path.
type TradeResult struct {
	Success bool `json:"success"`
	Order
}
