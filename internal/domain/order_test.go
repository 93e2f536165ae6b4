package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func TestTradeRequestValidate(t *testing.T) {
	valid := TradeRequest{
		MarketID: "btc-150k",
		Outcome:  OutcomeYes,
		Shares:   100,
	}

	tests := []struct {
		name    string
		mutate  func(r *TradeRequest)
		wantErr bool
	}{
		{name: "valid minimal", mutate: func(r *TradeRequest) {}, wantErr: false},
		{name: "valid with bounds", mutate: func(r *TradeRequest) {
			r.PriceLimit = fptr(60)
			r.Slippage = fptr(2)
		}, wantErr: false},
		{name: "missing market id", mutate: func(r *TradeRequest) { r.MarketID = "" }, wantErr: true},
		{name: "bad outcome", mutate: func(r *TradeRequest) { r.Outcome = "maybe" }, wantErr: true},
		{name: "zero shares", mutate: func(r *TradeRequest) { r.Shares = 0 }, wantErr: true},
		{name: "negative shares", mutate: func(r *TradeRequest) { r.Shares = -5 }, wantErr: true},
		{name: "shares over cap", mutate: func(r *TradeRequest) { r.Shares = 1_000_001 }, wantErr: true},
		{name: "shares at cap", mutate: func(r *TradeRequest) { r.Shares = 1_000_000 }, wantErr: false},
		{name: "price limit too low", mutate: func(r *TradeRequest) { r.PriceLimit = fptr(0.5) }, wantErr: true},
		{name: "price limit too high", mutate: func(r *TradeRequest) { r.PriceLimit = fptr(100) }, wantErr: true},
		{name: "price limit at ceiling", mutate: func(r *TradeRequest) { r.PriceLimit = fptr(99) }, wantErr: false},
		{name: "negative slippage", mutate: func(r *TradeRequest) { r.Slippage = fptr(-0.1) }, wantErr: true},
		{name: "slippage over cap", mutate: func(r *TradeRequest) { r.Slippage = fptr(10.5) }, wantErr: true},
		{name: "slippage at cap", mutate: func(r *TradeRequest) { r.Slippage = fptr(10) }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTrade) {
					t.Fatalf("err = %v, want ErrInvalidTrade", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTradeResultJSONShape(t *testing.T) {
	result := TradeResult{
		Success: true,
		Order: Order{
			ID:          "ord-1",
			MarketID:    "btc-150k",
			Outcome:     OutcomeYes,
			Shares:      100,
			FilledPrice: 50.05,
			TotalCost:   50.05,
			Status:      OrderStatusFilled,
			CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatal(err)
	}

	// The order fields must be flattened alongside success, not nested.
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"success", "orderId", "marketId", "outcome", "shares", "filledPrice", "totalCost", "status", "timestamp"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("missing top-level key %q in %s", key, raw)
		}
	}
	if _, ok := flat["order"]; ok {
		t.Error("order must not be nested")
	}
	if _, ok := flat["userAddress"]; ok {
		t.Error("empty userAddress must be omitted")
	}
}
