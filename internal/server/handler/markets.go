package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GurEtun/jupgate/internal/fixture"
)

// MarketHandler serves the fixture-backed market data endpoints: price
// history, orderbook, and recent trades. Output is deterministic per market
// id so the same market always renders the same demo data.
type MarketHandler struct {
	logger *slog.Logger
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(logger *slog.Logger) *MarketHandler {
	return &MarketHandler{logger: logger}
}

// History returns a price series for the market.
// GET /api/markets/{marketId}/history?interval=1h&limit=100
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	marketID := pathParam(r, "marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	interval := time.Hour
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "invalid interval")
			return
		}
		interval = d
	}
	limit := queryInt(r, "limit", 100, 1000)

	writeJSON(w, http.StatusOK, fixture.PriceHistory(marketID, interval, limit))
}

// Orderbook returns a book snapshot for the market.
// GET /api/markets/{marketId}/orderbook?depth=10
func (h *MarketHandler) Orderbook(w http.ResponseWriter, r *http.Request) {
	marketID := pathParam(r, "marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	depth := queryInt(r, "depth", 10, 50)
	writeJSON(w, http.StatusOK, fixture.Orderbook(marketID, depth))
}

// Trades returns the recent-trades tape for the market.
// GET /api/markets/{marketId}/trades?limit=50
func (h *MarketHandler) Trades(w http.ResponseWriter, r *http.Request) {
	marketID := pathParam(r, "marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	limit := queryInt(r, "limit", 50, 500)
	writeJSON(w, http.StatusOK, fixture.RecentTrades(marketID, limit))
}
