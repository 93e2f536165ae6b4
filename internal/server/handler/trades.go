package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GurEtun/jupgate/internal/domain"
	"github.com/GurEtun/jupgate/internal/metrics"
)

// TradeEngine defines what the trade handler needs from the simulator.
type TradeEngine interface {
	ExecuteMarketTrade(ctx context.Context, req domain.TradeRequest) domain.TradeResult
	GetMetrics(marketID string) domain.MarketMetrics
	ListOrders(userAddress string) []domain.Order
}

// TradeHandler serves the simulated trading endpoints.
type TradeHandler struct {
	engine TradeEngine
	logger *slog.Logger
}

// NewTradeHandler creates a TradeHandler.
func NewTradeHandler(engine TradeEngine, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{
		engine: engine,
		logger: logger,
	}
}

// Execute validates and simulates a market trade. Validation failures are
// 400s and never reach the engine; valid requests always fill.
// POST /api/trades/execute
func (h *TradeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req domain.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidTrade) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid trade request")
		return
	}

	result := h.engine.ExecuteMarketTrade(r.Context(), req)
	metrics.RecordTrade(string(result.Outcome), result.TotalCost)

	writeJSON(w, http.StatusOK, result)
}

// Metrics returns the engine's per-market aggregate; a market that has never
// traded yields the zeroed default.
// GET /api/trades/metrics/{marketId}
func (h *TradeHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	marketID := pathParam(r, "marketId")
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "missing market id")
		return
	}

	writeJSON(w, http.StatusOK, h.engine.GetMetrics(marketID))
}

// listOrdersResponse wraps the simulated-orders listing.
type listOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// ListOrders returns simulated orders, optionally filtered by user address.
// GET /api/trades/orders?user=
func (h *TradeHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.engine.ListOrders(r.URL.Query().Get("user"))
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{Orders: orders})
}
