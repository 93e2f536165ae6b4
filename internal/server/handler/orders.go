package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/GurEtun/jupgate/internal/domain"
)

// maxProxyBody bounds the request body size forwarded upstream.
const maxProxyBody = 1 << 20

// OrderProxy forwards an order request to the upstream API verbatim.
type OrderProxy interface {
	ProxyOrders(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error)
}

// OrderLookup resolves locally simulated orders.
type OrderLookup interface {
	GetOrder(id string) (domain.Order, error)
}

// OrderHandler serves the order passthrough and the local status lookup.
type OrderHandler struct {
	proxy  OrderProxy
	local  OrderLookup
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(proxy OrderProxy, local OrderLookup, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		proxy:  proxy,
		local:  local,
		logger: logger,
	}
}

// Proxy forwards GET/POST/DELETE order requests to the upstream API,
// mirroring the upstream status and body back to the caller.
// GET|POST|DELETE /api/jup/orders[/...]
func (h *OrderHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Map /api/jup/orders... onto the upstream /orders... path.
	path := "/orders" + strings.TrimPrefix(r.URL.Path, "/api/jup/orders")

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxProxyBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
	}

	status, respBody, err := h.proxy.ProxyOrders(r.Context(), r.Method, path, r.URL.Query(), body)
	if err != nil {
		writeUpstreamError(w, h.logger, r, err)
		return
	}

	writeRaw(w, status, respBody)
}

// Status looks up a locally simulated order by its id.
// GET /api/jup/orders/status/{orderPubkey}
func (h *OrderHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "orderPubkey")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.local.GetOrder(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: order status failed",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to look up order")
		return
	}

	writeJSON(w, http.StatusOK, order)
}
