// Package upstream implements the REST client for the Jupiter prediction-
// market aggregator API. The API is treated as a black box: bodies pass
// through as raw JSON, only errors are normalized.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is the REST client for the aggregator API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new Client. baseURL is the API root; apiKey, when
// non-empty, is forwarded on every request as the x-api-key header.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetEvents returns the event list matching the query.
func (c *Client) GetEvents(ctx context.Context, q EventQuery) (json.RawMessage, error) {
	body, err := c.doGet(ctx, "/events?"+q.Values().Encode())
	if err != nil {
		return nil, fmt.Errorf("upstream: get events: %w", err)
	}
	return body, nil
}

// GetEvent returns a single event with its nested markets.
func (c *Client) GetEvent(ctx context.Context, eventID string) (json.RawMessage, error) {
	body, err := c.doGet(ctx, "/events/"+url.PathEscape(eventID))
	if err != nil {
		return nil, fmt.Errorf("upstream: get event %s: %w", eventID, err)
	}
	return body, nil
}

// GetEventMarkets returns the markets under an event. When marketID is
// non-empty, only that market is requested.
func (c *Client) GetEventMarkets(ctx context.Context, eventID, marketID string) (json.RawMessage, error) {
	path := "/events/" + url.PathEscape(eventID) + "/markets"
	if marketID != "" {
		path += "/" + url.PathEscape(marketID)
	}
	body, err := c.doGet(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upstream: get event markets %s: %w", eventID, err)
	}
	return body, nil
}

// SearchEvents searches events by free-text query.
func (c *Client) SearchEvents(ctx context.Context, query string) (json.RawMessage, error) {
	v := url.Values{}
	v.Set("query", query)
	body, err := c.doGet(ctx, "/events/search?"+v.Encode())
	if err != nil {
		return nil, fmt.Errorf("upstream: search events: %w", err)
	}
	return body, nil
}

// ProxyOrders forwards an order request verbatim and returns the upstream
// status code and body, including non-2xx responses. The error return is
// reserved for request construction and transport failures.
func (c *Client) ProxyOrders(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("upstream: create request: %w", err)
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("upstream: read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}

// newError builds an *Error from a non-2xx response. The body becomes
// Details: parsed when it is valid JSON, raw text otherwise.
func newError(status int, body []byte) *Error {
	e := &Error{
		Status:  status,
		Message: "upstream request failed",
	}
	var parsed any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &parsed); err == nil {
			e.Details = parsed
		} else {
			e.Details = string(body)
		}
	}
	return e
}
