package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/checkout-demo/internal/catalog"
	"github.com/noah-isme/checkout-demo/internal/checkout"
	"github.com/noah-isme/checkout-demo/internal/health"
	"github.com/noah-isme/checkout-demo/internal/obs"
	"github.com/noah-isme/checkout-demo/internal/payment"
	"github.com/noah-isme/checkout-demo/internal/ratelimit"
	"github.com/noah-isme/checkout-demo/internal/security"
)

// Deps collects everything the router mounts.
type Deps struct {
	Logger             zerolog.Logger
	Catalog            *catalog.Handler
	Checkout           *checkout.Handler
	Webhook            payment.Webhook
	Health             health.Handler
	HTTPMetrics        *obs.HTTPMetrics
	MetricsEnabled     bool
	TracingEnabled     bool
	CORSAllowedOrigins []string
	RateLimit          ratelimit.Handler
	MaxBodyBytes       int64
	SecurityHeaders    security.Headers
}

// NewRouter assembles the HTTP surface. The webhook route must see the raw
// request body byte-exact: the only body-touching middleware ahead of it is
// the size limit, which buffers and restores the payload unmodified. Any
// middleware that decodes or re-encodes JSON belongs on the /api subtree,
// never here.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if d.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if d.MetricsEnabled && d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(d.SecurityHeaders.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(d.CORSAllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Stripe-Signature"},
		MaxAge:         300,
	}))
	if d.MaxBodyBytes > 0 {
		r.Use(security.BodyLimit{Max: d.MaxBodyBytes}.Middleware)
	}

	r.Post("/webhook", d.Webhook.Handle)

	if d.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", d.Health.Live)
	r.Get("/health/ready", d.Health.Ready)

	r.Route("/api", func(api chi.Router) {
		api.Get("/products", d.Catalog.Products)
		api.Get("/config", d.Catalog.Config)
		create := api.With()
		if d.RateLimit.Limiter != nil {
			create = api.With(d.RateLimit.Middleware)
		}
		create.Post("/create-checkout-session", d.Checkout.CreateSession)
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
