// Package flow drives the client checkout flow: a two-state machine that
// gates payment behind a non-empty cart and keeps the shopper on the review
// screen when session creation fails.
package flow

import (
	"context"
	"errors"

	"github.com/noah-isme/checkout-demo/internal/cart"
	"github.com/noah-isme/checkout-demo/internal/checkout"
)

// State is the client view state.
type State int

const (
	// Browsing shows the catalog and cart controls.
	Browsing State = iota
	// Reviewing shows the cart summary with the pay action.
	Reviewing
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case Reviewing:
		return "reviewing"
	default:
		return "unknown"
	}
}

// ErrEmptyCart signals the user-facing "cart is empty" warning.
var ErrEmptyCart = errors.New("flow: cart is empty")

// ErrNotReviewing is returned when Pay is invoked outside the review state.
var ErrNotReviewing = errors.New("flow: not in review state")

// SessionCreator posts cart lines to the backend and returns the hosted
// checkout session for the redirect.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, items []checkout.LineItem) (checkout.Output, error)
}

// Flow owns the cart and the current view state. Single goroutine only,
// mirroring UI-thread ownership.
type Flow struct {
	Cart    *cart.Cart
	Client  SessionCreator
	state   State
	lastErr string
}

// New starts a flow in the Browsing state over the provided cart.
func New(c *cart.Cart, client SessionCreator) *Flow {
	return &Flow{Cart: c, Client: client}
}

// State returns the current view state.
func (f *Flow) State() State {
	return f.state
}

// LastError returns the most recent user-facing failure message, empty when
// the last transition succeeded.
func (f *Flow) LastError() string {
	return f.lastErr
}

// ProceedToCheckout moves Browsing to Reviewing. With an empty cart the flow
// stays in Browsing and ErrEmptyCart carries the user-facing warning.
func (f *Flow) ProceedToCheckout() error {
	if f.Cart == nil || f.Cart.IsEmpty() {
		f.lastErr = "your cart is empty"
		return ErrEmptyCart
	}
	f.state = Reviewing
	f.lastErr = ""
	return nil
}

// BackToShopping returns to Browsing unconditionally.
func (f *Flow) BackToShopping() {
	f.state = Browsing
	f.lastErr = ""
}

// Pay submits the current cart for a hosted checkout session. On success the
// caller performs the browser redirect with the returned session; on failure
// the flow stays in Reviewing and the failure reason is retained for display.
func (f *Flow) Pay(ctx context.Context) (checkout.Output, error) {
	if f.state != Reviewing {
		return checkout.Output{}, ErrNotReviewing
	}
	if f.Client == nil {
		return checkout.Output{}, errors.New("flow: session creator not configured")
	}
	items := make([]checkout.LineItem, 0, f.Cart.Len())
	for _, line := range f.Cart.Items() {
		items = append(items, checkout.LineItem{
			ID:       line.Product.ID,
			Name:     line.Product.Name,
			Price:    line.Product.Price,
			Quantity: line.Quantity,
		})
	}
	out, err := f.Client.CreateCheckoutSession(ctx, items)
	if err != nil {
		f.lastErr = err.Error()
		return checkout.Output{}, err
	}
	f.lastErr = ""
	return out, nil
}
