package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/checkout-demo/internal/health"
)

type stubChecker struct {
	err error
}

func (s stubChecker) PingReplayStore(context.Context, time.Duration) error {
	return s.err
}

func TestLive(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.Handler{}.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestReady(t *testing.T) {
	t.Parallel()

	t.Run("no dependencies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		health.Handler{}.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var status map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		require.Equal(t, "disabled", status["replay_store"])
	})

	t.Run("replay store reachable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		health.Handler{Checker: stubChecker{}}.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var status map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		require.Equal(t, "ok", status["replay_store"])
	})

	t.Run("replay store down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		health.Handler{Checker: stubChecker{err: errors.New("dial tcp: refused")}}.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
