package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-demo/internal/config"
)

func baseEnv() map[string]string {
	return map[string]string{
		"STRIPE_SECRET_KEY":     "sk_test_abc",
		"STRIPE_WEBHOOK_SECRET": "whsec_test_abc",
	}
}

func TestLoadDefaults(t *testing.T) {
	env := baseEnv()
	env["PORT"] = ""
	env["FRONTEND_BASE_URL"] = ""
	env["CURRENCY_CODE"] = ""

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)

	require.Equal(t, "sk_test_abc", cfg.StripeSecretKey)
	require.Equal(t, ":4242", cfg.HTTPAddr())
	require.Equal(t, "usd", cfg.CurrencyCode)
	require.Equal(t, "http://localhost:3000", cfg.FrontendBaseURL)
	require.Equal(t, 5*time.Minute, cfg.WebhookTolerance)
	require.Equal(t, 24*time.Hour, cfg.WebhookReplayTTL)
	require.Equal(t, int64(60), cfg.RateLimitMax)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoadRequiredKeys(t *testing.T) {
	t.Run("missing secret key", func(t *testing.T) {
		env := baseEnv()
		env["STRIPE_SECRET_KEY"] = ""
		_, err := config.LoadForTests(env)
		require.ErrorContains(t, err, "STRIPE_SECRET_KEY")
	})

	t.Run("missing webhook secret", func(t *testing.T) {
		env := baseEnv()
		env["STRIPE_WEBHOOK_SECRET"] = ""
		_, err := config.LoadForTests(env)
		require.ErrorContains(t, err, "STRIPE_WEBHOOK_SECRET")
	})
}

func TestRedirectURLs(t *testing.T) {
	env := baseEnv()
	env["FRONTEND_BASE_URL"] = "https://shop.example.com/"

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)

	require.Equal(t, "https://shop.example.com", cfg.FrontendBaseURL)
	require.Equal(t, "https://shop.example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}", cfg.SuccessURL())
	require.Equal(t, "https://shop.example.com/checkout/cancel", cfg.CancelURL())
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "8080"
	env["CURRENCY_CODE"] = "EUR"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example.com, https://b.example.com"
	env["WEBHOOK_TOLERANCE"] = "90s"
	env["RATE_LIMIT_MAX"] = "5"
	env["STRIPE_MAX_NETWORK_RETRIES"] = "not-a-number"

	cfg, err := config.LoadForTests(env)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "eur", cfg.CurrencyCode)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 90*time.Second, cfg.WebhookTolerance)
	require.Equal(t, int64(5), cfg.RateLimitMax)
	require.Equal(t, int64(2), cfg.StripeMaxRetries)
}
