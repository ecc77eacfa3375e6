package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/noah-isme/checkout-demo/internal/common"
	"github.com/noah-isme/checkout-demo/internal/events"
	"github.com/noah-isme/checkout-demo/internal/obs"
)

// EventHandler processes one verified webhook event.
type EventHandler func(ctx context.Context, event stripe.Event)

// Webhook verifies inbound provider callbacks and dispatches them by event
// type. The signature is an HMAC over the timestamp-prefixed raw body, so the
// body must reach Handle byte-exact: no middleware may re-encode it.
type Webhook struct {
	// Secret is the pre-shared webhook signing secret.
	Secret string
	// Tolerance rejects events whose signature timestamp is older than this.
	Tolerance time.Duration
	// Handlers maps event types to handler branches. Types without an entry
	// fall through to a no-op: an authenticated-but-unrecognized event is
	// never an error.
	Handlers map[stripe.EventType]EventHandler
	// Replay dedupes redelivered events by event id when configured.
	Replay    ReplayStore
	ReplayTTL time.Duration
	Logger    zerolog.Logger
}

// Handle processes POST /webhook.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(h.Secret) == "" {
		common.JSONError(w, http.StatusInternalServerError, "WEBHOOK_NOT_CONFIGURED", "webhook unavailable", nil)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "INVALID_BODY", "unable to read payload", nil)
		return
	}

	tolerance := h.Tolerance
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	sigHeader := r.Header.Get("Stripe-Signature")
	if err := webhook.ValidatePayloadWithTolerance(body, sigHeader, h.Secret, tolerance); err != nil {
		h.count("", "rejected")
		h.Logger.Warn().Err(err).Str("remote_addr", common.ClientIP(r)).Msg("webhook signature rejected")
		common.JSONError(w, http.StatusBadRequest, "SIGNATURE_INVALID", "signature verification failed", nil)
		return
	}

	// Decode only after the raw bytes are authenticated.
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.count("", "rejected")
		common.JSONError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "malformed event payload", nil)
		return
	}

	ctx := r.Context()
	if h.Replay != nil && event.ID != "" {
		fresh, err := h.Replay.Remember(ctx, event.ID, h.ReplayTTL)
		if err != nil {
			// Availability over dedup: process anyway but leave a trace.
			h.Logger.Error().Err(err).Str("event_id", event.ID).Msg("webhook replay store unavailable")
		} else if !fresh {
			h.count(string(event.Type), "duplicate")
			h.Logger.Info().Str("event_id", event.ID).Str("event_type", string(event.Type)).Msg("duplicate webhook delivery acknowledged")
			common.JSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}
	}

	h.dispatch(ctx, event)
	common.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// dispatch is total over event types: unknown types are acknowledged and
// logged, never failed.
func (h Webhook) dispatch(ctx context.Context, event stripe.Event) {
	if fn, ok := h.Handlers[event.Type]; ok && fn != nil {
		fn(ctx, event)
		h.count(string(event.Type), "dispatched")
		return
	}
	h.count(string(event.Type), "ignored")
	h.Logger.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Msg("unhandled webhook event type")
}

func (h Webhook) count(eventType, outcome string) {
	if obs.WebhookEventTotal == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	obs.WebhookEventTotal.WithLabelValues(eventType, outcome).Inc()
}

// DefaultHandlers wires the recognized event types. The branches log and
// emit in-process events; order fulfillment is intentionally absent.
func DefaultHandlers(logger zerolog.Logger, bus *events.Bus) map[stripe.EventType]EventHandler {
	return map[stripe.EventType]EventHandler{
		stripe.EventTypeCheckoutSessionCompleted: func(ctx context.Context, event stripe.Event) {
			var session stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
				logger.Error().Err(err).Str("event_id", event.ID).Msg("decode checkout session payload")
				return
			}
			logger.Info().
				Str("event_id", event.ID).
				Str("session_id", session.ID).
				Int64("amount_total", session.AmountTotal).
				Msg("checkout session completed")
			if bus != nil {
				_ = bus.Emit(ctx, events.TopicCheckoutCompleted, map[string]any{
					"eventId":     event.ID,
					"sessionId":   session.ID,
					"amountTotal": session.AmountTotal,
				})
			}
		},
		stripe.EventTypePaymentIntentSucceeded: func(ctx context.Context, event stripe.Event) {
			var intent stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
				logger.Error().Err(err).Str("event_id", event.ID).Msg("decode payment intent payload")
				return
			}
			logger.Info().
				Str("event_id", event.ID).
				Str("payment_intent_id", intent.ID).
				Int64("amount", intent.Amount).
				Msg("payment intent succeeded")
			if bus != nil {
				_ = bus.Emit(ctx, events.TopicPaymentSucceeded, map[string]any{
					"eventId":         event.ID,
					"paymentIntentId": intent.ID,
					"amount":          intent.Amount,
				})
			}
		},
	}
}
