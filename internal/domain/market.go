package domain

import "time"

// PricePoint is one sample in a market price series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"` // cents
}

// BookLevel is a single price level of an orderbook side.
type BookLevel struct {
	Price float64 `json:"price"` // cents
	Size  float64 `json:"size"`  // shares
}

// Orderbook is a two-sided book snapshot. Bids are sorted best (highest)
// first, asks best (lowest) first.
type Orderbook struct {
	MarketID  string      `json:"marketId"`
	Bids      []BookLevel `json:"bids"`
	Asks      []BookLevel `json:"asks"`
	Timestamp time.Time   `json:"timestamp"`
}

// TradeSide indicates the aggressor side of a tape entry.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Trade is one entry of a market's recent-trades tape.
type Trade struct {
	ID        string    `json:"id"`
	MarketID  string    `json:"marketId"`
	Outcome   Outcome   `json:"outcome"`
	Side      TradeSide `json:"side"`
	Price     float64   `json:"price"` // cents
	Shares    float64   `json:"shares"`
	Timestamp time.Time `json:"timestamp"`
}
