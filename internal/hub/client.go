package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	apiKeyHeader   = "X-API-Key"
	statusPath     = "/api/orders/status"

	// StatusPaid is the literal status pushed when an invoice settles.
	StatusPaid = "paid"
)

// ErrUpdateRejected means the hub acknowledged the call but did not accept
// the status change.
var ErrUpdateRejected = errors.New("hub: status update rejected")

// Config configures the order-management client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client pushes order status changes into the order-management system.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs an order-management client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("hub: base url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

type statusUpdateRequest struct {
	OrderNumber int    `json:"order_number"`
	Status      string `json:"status"`
}

type statusUpdateResponse struct {
	// The hub has answered with either field name across versions; both are
	// accepted.
	Result string `json:"result"`
	Status string `json:"status"`
}

// MarkOrderPaid flags the order as paid. Success is signalled by an "ok"
// value under either of the hub's two response field names.
func (c *Client) MarkOrderPaid(ctx context.Context, orderNumber int) error {
	payload, err := json.Marshal(statusUpdateRequest{
		OrderNumber: orderNumber,
		Status:      StatusPaid,
	})
	if err != nil {
		return fmt.Errorf("hub: encode status update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+statusPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("hub: build status update: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hub: update order %d: %w", orderNumber, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hub: update order %d: status %d", orderNumber, resp.StatusCode)
	}

	var body statusUpdateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("hub: decode status update response: %w", err)
	}
	if body.Result != "ok" && body.Status != "ok" {
		return fmt.Errorf("%w: order %d", ErrUpdateRejected, orderNumber)
	}
	return nil
}
