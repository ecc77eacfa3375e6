package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents optional dependencies that can be probed for readiness.
type Checker interface {
	PingReplayStore(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	// Checker may be nil when no external dependency is configured; the
	// service is then trivially ready.
	Checker Checker
	Timeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"replay_store": "disabled"}
	healthy := true
	if h.Checker != nil {
		if err := h.Checker.PingReplayStore(r.Context(), h.timeout()); err != nil {
			status["replay_store"] = err.Error()
			healthy = false
		} else {
			status["replay_store"] = "ok"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) timeout() time.Duration {
	if h.Timeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.Timeout
}
