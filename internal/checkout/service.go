package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/checkout-demo/internal/common"
	"github.com/noah-isme/checkout-demo/internal/obs"
	"github.com/noah-isme/checkout-demo/internal/payment"
)

// LineItem is one cart line submitted by the client. Price is in minor
// currency units.
type LineItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"gte=0"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

// Input is the create-checkout-session request payload.
type Input struct {
	Items []LineItem `json:"items" validate:"required,min=1,dive"`
}

// Output carries the provider session id (and hosted URL when available)
// back to the client for the redirect.
type Output struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// Service builds provider checkout sessions from cart line items. It holds
// no per-request state; the only side effect is the upstream provider call.
type Service struct {
	Provider   payment.Provider
	Currency   string
	SuccessURL string
	CancelURL  string
	Validate   *validator.Validate

	// NewIdempotencyKey overrides key generation in tests.
	NewIdempotencyKey func() string
}

// Create validates the cart lines and opens a hosted checkout session.
// Validation failures never reach the provider.
func (s *Service) Create(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Provider == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if err := s.validate(in); err != nil {
		s.count("invalid")
		return Output{}, err
	}

	req := payment.SessionRequest{
		Currency:       s.Currency,
		SuccessURL:     s.SuccessURL,
		CancelURL:      s.CancelURL,
		IdempotencyKey: s.idempotencyKey(),
	}
	for _, item := range in.Items {
		req.LineItems = append(req.LineItems, payment.SessionLineItem{
			Name:       item.Name,
			UnitAmount: item.Price,
			Quantity:   item.Quantity,
		})
	}

	sess, err := s.Provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.count("upstream_error")
		return Output{}, common.UpstreamError(err)
	}
	s.count("success")
	return Output{ID: sess.ID, URL: sess.URL}, nil
}

func (s *Service) validate(in Input) error {
	if len(in.Items) == 0 {
		return common.InvalidRequest("items must be a non-empty array", nil)
	}
	v := s.Validate
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0]
			return common.InvalidRequest(fmt.Sprintf("invalid item field %q", field.Field()), err)
		}
		return common.InvalidRequest("invalid items payload", err)
	}
	return nil
}

func (s *Service) idempotencyKey() string {
	if s.NewIdempotencyKey != nil {
		return s.NewIdempotencyKey()
	}
	return uuid.NewString()
}

func (s *Service) count(result string) {
	if obs.CheckoutSessionTotal == nil {
		return
	}
	obs.CheckoutSessionTotal.WithLabelValues(result).Inc()
}
