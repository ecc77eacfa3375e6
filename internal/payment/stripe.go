package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
)

// StripeConfig configures the Stripe-backed Provider.
type StripeConfig struct {
	SecretKey string
	// Timeout bounds each upstream request.
	Timeout time.Duration
	// MaxNetworkRetries enables the SDK's bounded retry with backoff for
	// idempotent requests.
	MaxNetworkRetries int64
	// BaseURL overrides the API host, e.g. for stripe-mock.
	BaseURL string
	// HTTPClient overrides the transport when set; Timeout is ignored then.
	HTTPClient *http.Client
}

// Stripe implements Provider on top of the official SDK client.
type Stripe struct {
	api *stripeclient.API
}

// NewStripe constructs a Stripe provider from environment-sourced
// credentials. Lifecycle is the process lifetime.
func NewStripe(cfg StripeConfig) (*Stripe, error) {
	key := strings.TrimSpace(cfg.SecretKey)
	if key == "" {
		return nil, errors.New("payment: stripe secret key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	backendCfg := &stripe.BackendConfig{HTTPClient: httpClient}
	if cfg.MaxNetworkRetries > 0 {
		backendCfg.MaxNetworkRetries = stripe.Int64(cfg.MaxNetworkRetries)
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		backendCfg.URL = stripe.String(strings.TrimRight(cfg.BaseURL, "/"))
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	api := &stripeclient.API{}
	api.Init(key, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Stripe{api: api}, nil
}

// CreateCheckoutSession opens a hosted checkout session and returns its id
// and hosted URL unchanged.
func (s *Stripe) CreateCheckoutSession(ctx context.Context, req SessionRequest) (Session, error) {
	if s == nil || s.api == nil {
		return Session{}, errors.New("payment: stripe provider not configured")
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if strings.TrimSpace(req.IdempotencyKey) != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}
	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}
