package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultIdentityBaseURL = "https://identity.xero.com"
	defaultAPIBaseURL      = "https://api.xero.com"
	defaultTimeout         = 10 * time.Second

	tokenPath       = "/connect/token"
	connectionsPath = "/connections"
	accountingPath  = "/api.xro/2.0"

	maxErrorDetailBytes = 4 * 1024
)

// Credential carries what an accounting API call needs: the current access
// token and the tenant the call targets.
type Credential struct {
	AccessToken string
	TenantID    string
}

// Connection is one organisation attached to the credential.
type Connection struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
	TenantType string `json:"tenantType"`
}

// ClientConfig configures the vendor API client.
type ClientConfig struct {
	ClientID     string
	ClientSecret string

	IdentityBaseURL string
	APIBaseURL      string

	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the vendor's identity service and accounting API. All
// calls use a bounded timeout; a timeout surfaces as a normal call failure.
type Client struct {
	clientID     string
	clientSecret string
	identityURL  string
	apiURL       string
	httpClient   *http.Client
}

// NewClient constructs a vendor API client from the configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, errors.New("xero: client id is required")
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("xero: client secret is required")
	}

	identityURL := strings.TrimRight(cfg.IdentityBaseURL, "/")
	if identityURL == "" {
		identityURL = defaultIdentityBaseURL
	}
	apiURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIBaseURL
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
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		identityURL:  identityURL,
		apiURL:       apiURL,
		httpClient:   httpClient,
	}, nil
}

// RefreshToken exchanges the refresh credential for a fresh token pair. The
// response is returned raw so callers can merge it without dropping fields.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (map[string]any, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.identityURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("xero: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRefreshFailed, resp.StatusCode, readErrorDetail(resp.Body))
	}

	response := make(map[string]any)
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRefreshFailed, err)
	}
	return response, nil
}

// Connections lists the organisations attached to the access token.
func (c *Client) Connections(ctx context.Context, accessToken string) ([]Connection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+connectionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("xero: build connections request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xero: list connections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("xero: list connections: status %d: %s", resp.StatusCode, readErrorDetail(resp.Body))
	}

	var connections []Connection
	if err := json.NewDecoder(resp.Body).Decode(&connections); err != nil {
		return nil, fmt.Errorf("xero: decode connections: %w", err)
	}
	return connections, nil
}

func (c *Client) accountingRequest(ctx context.Context, method, path string, cred Credential, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("xero: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+accountingPath+path, reader)
	if err != nil {
		return nil, fmt.Errorf("xero: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Xero-tenant-id", cred.TenantID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) doAccounting(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("xero: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrVendorRejected, req.Method, req.URL.Path, resp.StatusCode, readErrorDetail(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("xero: decode response: %w", err)
	}
	return nil
}
