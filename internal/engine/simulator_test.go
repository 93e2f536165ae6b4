package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/GurEtun/jupgate/internal/domain"
)

func newTestSimulator() *Simulator {
	return NewSimulator(slog.New(slog.DiscardHandler))
}

func ptr(v float64) *float64 { return &v }

func TestExecuteMarketTradeFillPrice(t *testing.T) {
	tests := []struct {
		name      string
		shares    float64
		slippage  *float64
		wantPrice float64
	}{
		{
			name:      "default slippage small order",
			shares:    100,
			slippage:  nil,
			wantPrice: 50.05, // 50 + 0.5 * (100/1000)
		},
		{
			name:      "default slippage thousand shares",
			shares:    1000,
			slippage:  nil,
			wantPrice: 50.5,
		},
		{
			name:      "explicit zero slippage fills at base",
			shares:    500000,
			slippage:  ptr(0),
			wantPrice: 50,
		},
		{
			name:      "large order with high slippage clamps at ceiling",
			shares:    1_000_000,
			slippage:  ptr(10), // 50 + 10*1000 = 10050, clamped
			wantPrice: 99,
		},
		{
			name:      "five slippage ten thousand shares",
			shares:    10000,
			slippage:  ptr(5), // 50 + 5*10 = 100, clamped
			wantPrice: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSimulator()
			req := domain.TradeRequest{
				MarketID: "btc-150k",
				Outcome:  domain.OutcomeYes,
				Shares:   tt.shares,
				Slippage: tt.slippage,
			}

			result := s.ExecuteMarketTrade(context.Background(), req)

			if !result.Success {
				t.Fatal("expected success")
			}
			if result.Order.Status != domain.OrderStatusFilled {
				t.Fatalf("status = %q, want filled", result.Order.Status)
			}
			if result.Order.FilledPrice != tt.wantPrice {
				t.Errorf("filledPrice = %v, want %v", result.Order.FilledPrice, tt.wantPrice)
			}
			wantCost := tt.shares * tt.wantPrice / 100
			if math.Abs(result.Order.TotalCost-wantCost) > 1e-9 {
				t.Errorf("totalCost = %v, want %v", result.Order.TotalCost, wantCost)
			}
			if result.Order.ID == "" {
				t.Error("expected non-empty order id")
			}
		})
	}
}

func TestExecuteMarketTradeRecordsOrder(t *testing.T) {
	s := newTestSimulator()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	result := s.ExecuteMarketTrade(context.Background(), domain.TradeRequest{
		MarketID:    "eth-10k",
		Outcome:     domain.OutcomeNo,
		Shares:      250,
		UserAddress: "0xabc",
	})

	got, err := s.GetOrder(result.Order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.MarketID != "eth-10k" || got.Outcome != domain.OutcomeNo {
		t.Errorf("stored order = %+v", got)
	}
	if got.UserAddress != "0xabc" {
		t.Errorf("userAddress = %q, want 0xabc", got.UserAddress)
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, fixed)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	s := newTestSimulator()
	if _, err := s.GetOrder("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMetricsAggregation(t *testing.T) {
	s := newTestSimulator()
	ctx := context.Background()

	var wantVolume float64
	const n = 5
	for i := 0; i < n; i++ {
		result := s.ExecuteMarketTrade(ctx, domain.TradeRequest{
			MarketID: "btc-150k",
			Outcome:  domain.OutcomeYes,
			Shares:   float64(100 * (i + 1)),
		})
		wantVolume += result.Order.TotalCost
	}

	m := s.GetMetrics("btc-150k")
	if m.TotalTrades != n {
		t.Errorf("totalTrades = %d, want %d", m.TotalTrades, n)
	}
	if math.Abs(m.TotalVolume-wantVolume) > 1e-9 {
		t.Errorf("totalVolume = %v, want %v", m.TotalVolume, wantVolume)
	}
	wantAvg := wantVolume / n
	if math.Abs(m.AveragePrice-wantAvg) > 1e-9 {
		t.Errorf("averagePrice = %v, want %v", m.AveragePrice, wantAvg)
	}
	if m.BidAskSpread != bidAskSpreadCents {
		t.Errorf("bidAskSpread = %v, want %v", m.BidAskSpread, bidAskSpreadCents)
	}
	if m.PriceChange24h < -5 || m.PriceChange24h >= 5 {
		t.Errorf("priceChange24h = %v, outside [-5, 5)", m.PriceChange24h)
	}
}

func TestGetMetricsUntradedMarket(t *testing.T) {
	s := newTestSimulator()
	m := s.GetMetrics("never-traded")
	if m.MarketID != "never-traded" {
		t.Errorf("marketId = %q", m.MarketID)
	}
	if m.TotalTrades != 0 || m.TotalVolume != 0 || m.AveragePrice != 0 {
		t.Errorf("expected zeroed metrics, got %+v", m)
	}
	if m.BidAskSpread != bidAskSpreadCents {
		t.Errorf("bidAskSpread = %v, want %v", m.BidAskSpread, bidAskSpreadCents)
	}
}

func TestListOrdersFiltersAndSorts(t *testing.T) {
	s := newTestSimulator()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	s.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	s.ExecuteMarketTrade(ctx, domain.TradeRequest{MarketID: "a", Outcome: domain.OutcomeYes, Shares: 10, UserAddress: "0xaaa"})
	s.ExecuteMarketTrade(ctx, domain.TradeRequest{MarketID: "b", Outcome: domain.OutcomeNo, Shares: 20, UserAddress: "0xbbb"})
	s.ExecuteMarketTrade(ctx, domain.TradeRequest{MarketID: "c", Outcome: domain.OutcomeYes, Shares: 30, UserAddress: "0xaaa"})

	all := s.ListOrders("")
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("orders not sorted newest first at index %d", i)
		}
	}

	mine := s.ListOrders("0xaaa")
	if len(mine) != 2 {
		t.Fatalf("len(mine) = %d, want 2", len(mine))
	}
	if mine[0].MarketID != "c" || mine[1].MarketID != "a" {
		t.Errorf("filtered order = %s, %s; want c, a", mine[0].MarketID, mine[1].MarketID)
	}
}

func TestTradeListenerReceivesFill(t *testing.T) {
	s := newTestSimulator()

	var gotOrder domain.Order
	var gotMetrics domain.MarketMetrics
	s.AddTradeListener(func(o domain.Order, m domain.MarketMetrics) {
		gotOrder = o
		gotMetrics = m
	})

	result := s.ExecuteMarketTrade(context.Background(), domain.TradeRequest{
		MarketID: "btc-150k",
		Outcome:  domain.OutcomeYes,
		Shares:   100,
	})

	if gotOrder.ID != result.Order.ID {
		t.Errorf("listener order id = %q, want %q", gotOrder.ID, result.Order.ID)
	}
	if gotMetrics.TotalTrades != 1 {
		t.Errorf("listener metrics trades = %d, want 1", gotMetrics.TotalTrades)
	}
}

func TestConcurrentTrades(t *testing.T) {
	s := newTestSimulator()
	ctx := context.Background()

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				s.ExecuteMarketTrade(ctx, domain.TradeRequest{
					MarketID: "btc-150k",
					Outcome:  domain.OutcomeYes,
					Shares:   100,
				})
			}
		}()
	}
	wg.Wait()

	m := s.GetMetrics("btc-150k")
	if m.TotalTrades != workers*perWorker {
		t.Errorf("totalTrades = %d, want %d", m.TotalTrades, workers*perWorker)
	}
	// Every trade is identical, so volume must be an exact multiple.
	perCost := 100 * 50.05 / 100
	want := perCost * workers * perWorker
	if math.Abs(m.TotalVolume-want) > 1e-6 {
		t.Errorf("totalVolume = %v, want %v", m.TotalVolume, want)
	}
	if len(s.ListOrders("")) != workers*perWorker {
		t.Errorf("order count = %d, want %d", len(s.ListOrders("")), workers*perWorker)
	}
}
