package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/checkout-demo/internal/catalog"
	"github.com/noah-isme/checkout-demo/internal/checkout"
	"github.com/noah-isme/checkout-demo/internal/common"
	"github.com/noah-isme/checkout-demo/internal/config"
	"github.com/noah-isme/checkout-demo/internal/events"
	"github.com/noah-isme/checkout-demo/internal/health"
	"github.com/noah-isme/checkout-demo/internal/obs"
	"github.com/noah-isme/checkout-demo/internal/payment"
	"github.com/noah-isme/checkout-demo/internal/ratelimit"
	"github.com/noah-isme/checkout-demo/internal/resilience"
	"github.com/noah-isme/checkout-demo/internal/security"
	"github.com/noah-isme/checkout-demo/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "checkout")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)
	resilience.MustRegisterMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "checkout-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	// Redis only backs webhook replay protection and is optional: without it
	// every delivery is dispatched, which the handlers tolerate.
	var redisClient *redis.Client
	var replayStore payment.ReplayStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("ping redis")
		}
		cancel()
		replayStore = payment.RedisReplayStore{Client: redisClient}
	}

	provider, err := payment.NewStripe(payment.StripeConfig{
		SecretKey:         cfg.StripeSecretKey,
		Timeout:           cfg.StripeTimeout,
		MaxNetworkRetries: cfg.StripeMaxRetries,
		BaseURL:           envOrDefault("STRIPE_API_BASE_URL", ""),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise payment provider")
	}

	catalogService := catalog.NewService()
	catalogHandler := &catalog.Handler{
		Service:        catalogService,
		PublishableKey: cfg.StripePublishableKey,
		Currency:       cfg.CurrencyCode,
	}

	checkoutSvc := &checkout.Service{
		Provider:   provider,
		Currency:   cfg.CurrencyCode,
		SuccessURL: cfg.SuccessURL(),
		CancelURL:  cfg.CancelURL(),
		Validate:   validator.New(),
	}
	checkoutHandler := &checkout.Handler{Svc: checkoutSvc}

	bus := &events.Bus{Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}}}
	webhookHandler := payment.Webhook{
		Secret:    cfg.StripeWebhookSecret,
		Tolerance: cfg.WebhookTolerance,
		Handlers:  payment.DefaultHandlers(logger, bus),
		Replay:    replayStore,
		ReplayTTL: cfg.WebhookReplayTTL,
		Logger:    logger,
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	var limiter ratelimit.Handler
	if cfg.RateLimitMax > 0 {
		limiter = ratelimit.New(ratelimit.Config{
			Key:    common.ClientIP,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		})
		limiter.OnError = func(err error) {
			logger.Error().Err(err).Msg("rate limit store")
		}
	}

	healthHandler := health.Handler{}
	if redisClient != nil {
		healthHandler.Checker = readinessChecker{redis: redisClient}
	}

	router := server.NewRouter(server.Deps{
		Logger:             logger,
		Catalog:            catalogHandler,
		Checkout:           checkoutHandler,
		Webhook:            webhookHandler,
		Health:             healthHandler,
		HTTPMetrics:        httpMetrics,
		MetricsEnabled:     metricsEnabled,
		TracingEnabled:     tracingEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          limiter,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		SecurityHeaders:    security.Headers{Enable: true, EnableHSTS: cfg.AppEnv == "production"},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.HTTPAddr(), router, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

type readinessChecker struct {
	redis *redis.Client
}

func (c readinessChecker) PingReplayStore(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
