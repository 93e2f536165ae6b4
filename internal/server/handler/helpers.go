package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GurEtun/jupgate/internal/upstream"
)

// apiError is the normalized error body returned by every route:
// {error, status, details?}.
type apiError struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

// writeJSON marshals v as JSON and writes it with the given status code. If
// marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error","status":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeRaw writes a pre-encoded JSON body verbatim.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError sends the normalized error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg, Status: status})
}

// writeErrorDetails sends the normalized error body with details attached.
func writeErrorDetails(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, apiError{Error: msg, Status: status, Details: details})
}

// writeUpstreamError maps a failed upstream call to the response contract:
// upstream non-2xx responses mirror their status code with the upstream body
// as details, everything else (network, parse) becomes a 500 with the error
// message as details.
func writeUpstreamError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		writeErrorDetails(w, upErr.Status, "upstream request failed", upErr.Details)
		return
	}

	logger.ErrorContext(r.Context(), "upstream call failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeErrorDetails(w, http.StatusInternalServerError, "internal server error",
		map[string]string{"message": err.Error()})
}

// pathParam extracts a named path parameter from the request using Go 1.22+
// built-in routing.
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// queryInt parses an integer query parameter, returning def when absent or
// malformed, capped at max.
func queryInt(r *http.Request, name string, def, max int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// wantsFresh reports whether the request asks to bypass the response cache,
// via either ?refresh=true or Cache-Control: no-cache (what the browser
// hook's refresh() sends).
func wantsFresh(r *http.Request) bool {
	if v := r.URL.Query().Get("refresh"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			return true
		}
	}
	return r.Header.Get("Cache-Control") == "no-cache"
}
