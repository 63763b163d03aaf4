package statusclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/gpiostatus/internal/pinout"
)

const (
	// APIPath is the status endpoint, relative to the server base URL
	APIPath = "/api/plugin/gpiostatus"

	// APIKeyHeader carries the optional API key
	APIKeyHeader = "X-Api-Key"

	// DefaultTimeout bounds a single fetch. A timeout is reported like any
	// other transport failure.
	DefaultTimeout = 10 * time.Second

	// maxResponseSize caps the body read from the server
	maxResponseSize = 1 << 20
)

// Client fetches GPIO status from a gpiostatus server. It performs exactly
// one request per Fetch and never retries.
type Client struct {
	// BaseURL is the server base URL (e.g., "http://raspberrypi.local:5000")
	BaseURL string

	// APIKey is sent in the X-Api-Key header when set
	APIKey string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// URL returns the full endpoint address.
func (c *Client) URL() string {
	return c.BaseURL + APIPath
}

// Fetch posts a status request and decodes the reply.
func (c *Client) Fetch(ctx context.Context, request pinout.Request) (*pinout.Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, NewParseError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError("failed to create POST request", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set(APIKeyHeader, c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		se := NewNetworkError("POST request failed", err)
		se.Server = c.BaseURL
		return nil, se
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewAuthError(resp.StatusCode, "server rejected the API key")
	case resp.StatusCode != http.StatusOK:
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, errorMessage(data)))
	}

	var status pinout.Response
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, NewParseError("failed to parse JSON response", err)
	}
	if status.Commands.Available() && (status.Status == nil || status.Services == nil) {
		return nil, NewParseError("response is missing status or services", nil)
	}

	return &status, nil
}

// errorMessage extracts the "error" field of a JSON error body, or returns
// the trimmed body.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
