package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GurEtun/jupgate/internal/domain"
)

func marketRequest(t *testing.T, target, marketID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.SetPathValue("marketId", marketID)
	return req
}

func TestMarketHistory(t *testing.T) {
	h := NewMarketHandler(testLogger())

	t.Run("defaults", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.History(rec, marketRequest(t, "/api/markets/btc-150k/history", "btc-150k"))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var points []domain.PricePoint
		if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
			t.Fatal(err)
		}
		if len(points) != 100 {
			t.Errorf("len = %d, want default 100", len(points))
		}
	})

	t.Run("limit capped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.History(rec, marketRequest(t, "/api/markets/btc-150k/history?limit=5000", "btc-150k"))

		var points []domain.PricePoint
		if err := json.Unmarshal(rec.Body.Bytes(), &points); err != nil {
			t.Fatal(err)
		}
		if len(points) != 1000 {
			t.Errorf("len = %d, want cap 1000", len(points))
		}
	})

	t.Run("invalid interval is 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.History(rec, marketRequest(t, "/api/markets/btc-150k/history?interval=weekly", "btc-150k"))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("deterministic per market", func(t *testing.T) {
		first := httptest.NewRecorder()
		second := httptest.NewRecorder()
		h.History(first, marketRequest(t, "/api/markets/btc-150k/history?limit=10", "btc-150k"))
		h.History(second, marketRequest(t, "/api/markets/btc-150k/history?limit=10", "btc-150k"))

		var a, b []domain.PricePoint
		json.Unmarshal(first.Body.Bytes(), &a)
		json.Unmarshal(second.Body.Bytes(), &b)
		for i := range a {
			if a[i].Price != b[i].Price {
				t.Fatalf("point %d differs", i)
			}
		}
	})
}

func TestMarketOrderbook(t *testing.T) {
	h := NewMarketHandler(testLogger())

	rec := httptest.NewRecorder()
	h.Orderbook(rec, marketRequest(t, "/api/markets/btc-150k/orderbook?depth=5", "btc-150k"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var book domain.Orderbook
	if err := json.Unmarshal(rec.Body.Bytes(), &book); err != nil {
		t.Fatal(err)
	}
	if book.MarketID != "btc-150k" {
		t.Errorf("marketId = %q", book.MarketID)
	}
	if len(book.Bids) != 5 || len(book.Asks) != 5 {
		t.Errorf("levels = %d/%d, want 5/5", len(book.Bids), len(book.Asks))
	}
}

func TestMarketTrades(t *testing.T) {
	h := NewMarketHandler(testLogger())

	rec := httptest.NewRecorder()
	h.Trades(rec, marketRequest(t, "/api/markets/btc-150k/trades?limit=7", "btc-150k"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var trades []domain.Trade
	if err := json.Unmarshal(rec.Body.Bytes(), &trades); err != nil {
		t.Fatal(err)
	}
	if len(trades) != 7 {
		t.Errorf("len = %d, want 7", len(trades))
	}
}
