// Package client is the Go API client a frontend embeds to talk to the
// backend: catalog fetch and checkout-session creation, with bounded retry
// and a request timeout around every call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/checkout-demo/internal/catalog"
	"github.com/noah-isme/checkout-demo/internal/checkout"
	"github.com/noah-isme/checkout-demo/internal/common"
	"github.com/noah-isme/checkout-demo/internal/resilience"
)

// Config mirrors the GET /api/config response.
type Config struct {
	PublishableKey string `json:"publishableKey"`
	Currency       string `json:"currency"`
}

// Client calls the backend HTTP API.
type Client struct {
	BaseURL string
	HTTP    resilience.HTTPClient
}

// New constructs a client with sane retry and timeout defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{},
			Breaker:     resilience.NewBreaker(5, 0.5, 10*time.Second).WithTarget("backend"),
			BaseBackoff: 200 * time.Millisecond,
			MaxAttempts: 3,
			Jitter:      0.2,
			Timeout:     10 * time.Second,
		},
	}
}

// Products fetches the catalog.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.get(ctx, "/api/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Fetch retrieves the client configuration (publishable key, currency).
func (c *Client) Fetch(ctx context.Context) (Config, error) {
	var cfg Config
	if err := c.get(ctx, "/api/config", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CreateCheckoutSession posts the cart lines and returns the hosted session.
func (c *Client) CreateCheckoutSession(ctx context.Context, items []checkout.LineItem) (checkout.Output, error) {
	body, err := json.Marshal(checkout.Input{Items: items})
	if err != nil {
		return checkout.Output{}, fmt.Errorf("client: encode items: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/create-checkout-session", bytes.NewReader(body))
	if err != nil {
		return checkout.Output{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out checkout.Output
	if err := c.do(ctx, req, &out); err != nil {
		return checkout.Output{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, v)
}

func (c *Client) do(ctx context.Context, req *http.Request, v any) error {
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return common.NewAppError("NETWORK_ERROR", fmt.Sprintf("request to backend failed: %v", err), 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return common.NewAppError("NETWORK_ERROR", "malformed response from backend", resp.StatusCode, err)
	}
	return nil
}

// decodeAPIError maps the server's error envelope back onto an AppError so
// callers see the same code and message the server emitted.
func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error common.ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return common.NewAppError("NETWORK_ERROR", fmt.Sprintf("backend responded %s", resp.Status), resp.StatusCode, nil)
	}
	return common.NewAppError(envelope.Error.Code, envelope.Error.Message, resp.StatusCode, nil)
}
