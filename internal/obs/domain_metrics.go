package obs

import "github.com/prometheus/client_golang/prometheus"

// Domain counters shared across the checkout and webhook paths. Registered
// once at startup via MustRegisterDomainMetrics; nil until then so packages
// can guard with a nil check.
var (
	// CheckoutSessionTotal counts checkout-session creations by result
	// (success, invalid, upstream_error).
	CheckoutSessionTotal *prometheus.CounterVec

	// WebhookEventTotal counts inbound webhook deliveries by event type and
	// outcome (dispatched, ignored, duplicate, rejected).
	WebhookEventTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics registers domain collectors on the provided
// registerer (default registerer when nil). Safe to call more than once.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	CheckoutSessionTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_sessions_total",
		Help:      "Checkout session creation attempts by result.",
	}, []string{"result"}))
	WebhookEventTotal = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Inbound payment webhook deliveries by event type and outcome.",
	}, []string{"type", "outcome"}))
}
