package payment

import "context"

// SessionLineItem is one purchasable line of a checkout session. UnitAmount
// is in minor currency units.
type SessionLineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionRequest captures the information required to open a hosted checkout
// session with a provider. SuccessURL may carry a provider-substituted
// session-id placeholder.
type SessionRequest struct {
	Currency       string
	SuccessURL     string
	CancelURL      string
	LineItems      []SessionLineItem
	IdempotencyKey string
}

// Session is the minimal information returned by a provider when a hosted
// checkout session is created.
type Session struct {
	ID  string
	URL string
}

// Provider abstracts the operations required from an upstream payment
// provider. Constructed once at startup and injected, so tests can
// substitute a fake.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (Session, error)
}
