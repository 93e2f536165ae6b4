package domain

import "time"

// MarketMetrics is the per-market aggregate maintained by the trading engine.
// AveragePrice is recomputed as TotalVolume / TotalTrades on every trade, and
// TotalVolume never decreases within a process lifetime.
type MarketMetrics struct {
	MarketID       string    `json:"marketId"`
	TotalVolume    float64   `json:"totalVolume"` // dollars
	TotalTrades    int64     `json:"totalTrades"`
	AveragePrice   float64   `json:"averagePrice"` // dollars per trade
	LastTradeTime  time.Time `json:"lastTradeTime"`
	PriceChange24h float64   `json:"priceChange24h"` // perturbed, not real history
	BidAskSpread   float64   `json:"bidAskSpread"`   // cents, constant
}
