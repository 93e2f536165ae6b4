// Package engine implements the mock trading engine. It simulates the effect
// of submitting a market order against a binary prediction market: no order
// book, no counterparty, no settlement. The fill price is fabricated from a
// fixed base price plus a size-proportional slippage term, and the resulting
// order is held in process memory only.
package engine

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GurEtun/jupgate/internal/domain"
)

const (
	// basePriceCents is the simulated execution base for both outcomes. The
	// engine does not track real market prices; the UI-visible price never
	// reaches it. Kept at 50c on purpose.
	basePriceCents = 50.0

	// defaultSlippage is used when the request does not carry one.
	defaultSlippage = 0.5

	// bidAskSpreadCents is reported in metrics as a constant.
	bidAskSpreadCents = 2.0
)

// TradeListener is invoked after every executed trade with the recorded
// order and the updated metrics for its market. Listeners run on the calling
// goroutine after the engine state has been updated.
type TradeListener func(order domain.Order, metrics domain.MarketMetrics)

// Simulator holds the in-memory order and per-market metrics maps. A single
// mutex guards both so that concurrent executions cannot interleave the
// metrics read-modify-write. State is lost on restart.
type Simulator struct {
	mu        sync.Mutex
	orders    map[string]domain.Order
	metrics   map[string]domain.MarketMetrics
	listeners []TradeListener
	logger    *slog.Logger
	now       func() time.Time
}

// NewSimulator creates an empty Simulator.
func NewSimulator(logger *slog.Logger) *Simulator {
	return &Simulator{
		orders:  make(map[string]domain.Order),
		metrics: make(map[string]domain.MarketMetrics),
		logger:  logger.With(slog.String("component", "engine")),
		now:     time.Now,
	}
}

// AddTradeListener registers fn to be called after each executed trade.
// Not safe to call concurrently with ExecuteMarketTrade; register listeners
// during wiring, before the server starts.
func (s *Simulator) AddTradeListener(fn TradeListener) {
	s.listeners = append(s.listeners, fn)
}

// ExecuteMarketTrade simulates filling a market order. The request must
// already be validated by the caller (see domain.TradeRequest.Validate); the
// engine assumes valid input and cannot fail. Every order fills immediately
// and completely.
func (s *Simulator) ExecuteMarketTrade(ctx context.Context, req domain.TradeRequest) domain.TradeResult {
	slippage := defaultSlippage
	if req.Slippage != nil {
		slippage = *req.Slippage
	}

	price := basePriceCents + slippage*(req.Shares/1000)
	price = clamp(price, domain.MinPriceCents, domain.MaxPriceCents)

	order := domain.Order{
		ID:          uuid.NewString(),
		MarketID:    req.MarketID,
		Outcome:     req.Outcome,
		Shares:      req.Shares,
		FilledPrice: price,
		TotalCost:   req.Shares * price / 100,
		Status:      domain.OrderStatusFilled,
		UserAddress: req.UserAddress,
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	s.orders[order.ID] = order

	m := s.metrics[req.MarketID]
	m.MarketID = req.MarketID
	m.TotalVolume += order.TotalCost
	m.TotalTrades++
	m.AveragePrice = m.TotalVolume / float64(m.TotalTrades)
	m.LastTradeTime = order.CreatedAt
	m.PriceChange24h = priceChangePerturbation(req.MarketID, m.TotalTrades)
	m.BidAskSpread = bidAskSpreadCents
	s.metrics[req.MarketID] = m

	listeners := s.listeners
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "trade executed",
		slog.String("order_id", order.ID),
		slog.String("market_id", order.MarketID),
		slog.String("outcome", string(order.Outcome)),
		slog.Float64("shares", order.Shares),
		slog.Float64("filled_price", order.FilledPrice),
		slog.Float64("total_cost", order.TotalCost),
	)

	for _, fn := range listeners {
		fn(order, m)
	}

	return domain.TradeResult{Success: true, Order: order}
}

// GetOrder returns the stored order for id, or domain.ErrNotFound.
func (s *Simulator) GetOrder(id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

// GetMetrics returns the current aggregate for marketID, or a zeroed default
// if the market has never traded.
func (s *Simulator) GetMetrics(marketID string) domain.MarketMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.metrics[marketID]
	if !ok {
		return domain.MarketMetrics{MarketID: marketID, BidAskSpread: bidAskSpreadCents}
	}
	return m
}

// ListOrders returns all orders for the given user address, newest first.
// An empty address returns every recorded order.
func (s *Simulator) ListOrders(userAddress string) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if userAddress != "" && o.UserAddress != userAddress {
			continue
		}
		orders = append(orders, o)
	}

	// Insertion sort by creation time, newest first. Order counts are small
	// for the lifetime of a demo process.
	for i := 1; i < len(orders); i++ {
		for j := i; j > 0 && orders[j].CreatedAt.After(orders[j-1].CreatedAt); j-- {
			orders[j], orders[j-1] = orders[j-1], orders[j]
		}
	}
	return orders
}

// priceChangePerturbation fabricates a 24h price change in [-5, 5). It is
// deterministic for a given market id and trade count.
func priceChangePerturbation(marketID string, totalTrades int64) float64 {
	h := fnv.New64a()
	h.Write([]byte(marketID))
	rng := rand.New(rand.NewSource(int64(h.Sum64()) ^ totalTrades))
	return (rng.Float64() - 0.5) * 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
