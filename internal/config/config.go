package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv               string
	Port                 string
	StripeSecretKey      string
	StripeWebhookSecret  string
	StripePublishableKey string
	FrontendBaseURL      string
	CurrencyCode         string
	CORSAllowedOrigins   []string
	RedisURL             string
	WebhookTolerance     time.Duration
	WebhookReplayTTL     time.Duration
	StripeTimeout        time.Duration
	StripeMaxRetries     int64
	RateLimitWindow      time.Duration
	RateLimitMax         int64
	MaxBodyBytes         int64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:               valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                 valueOrDefault(k.String("PORT"), "4242"),
		StripeSecretKey:      k.String("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:  k.String("STRIPE_WEBHOOK_SECRET"),
		StripePublishableKey: k.String("STRIPE_PUBLISHABLE_KEY"),
		FrontendBaseURL:      strings.TrimRight(valueOrDefault(k.String("FRONTEND_BASE_URL"), "http://localhost:3000"), "/"),
		CurrencyCode:         strings.ToLower(valueOrDefault(k.String("CURRENCY_CODE"), "usd")),
		CORSAllowedOrigins:   splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		RedisURL:             k.String("REDIS_URL"),
		WebhookTolerance:     parseDuration(k.String("WEBHOOK_TOLERANCE"), "5m"),
		WebhookReplayTTL:     parseDuration(k.String("WEBHOOK_REPLAY_TTL"), "24h"),
		StripeTimeout:        parseDuration(k.String("STRIPE_TIMEOUT"), "30s"),
		StripeMaxRetries:     parseInt64(k.String("STRIPE_MAX_NETWORK_RETRIES"), 2),
		RateLimitWindow:      parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:         parseInt64(k.String("RATE_LIMIT_MAX"), 60),
		MaxBodyBytes:         parseInt64(k.String("MAX_BODY_BYTES"), 1<<20),
	}

	if cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "4242"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// SuccessURL is where the hosted checkout page redirects after payment. The
// {CHECKOUT_SESSION_ID} placeholder is substituted by the provider.
func (c *Config) SuccessURL() string {
	return c.FrontendBaseURL + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL is where the hosted checkout page redirects on abandonment.
func (c *Config) CancelURL() string {
	return c.FrontendBaseURL + "/checkout/cancel"
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt64(value string, fallback int64) int64 {
	base := strings.TrimSpace(value)
	if base == "" {
		return fallback
	}
	n, err := strconv.ParseInt(base, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
