package resilience

import "github.com/prometheus/client_golang/prometheus"

// Breaker telemetry collectors. Nil unless MustRegisterMetrics has run, so
// the breaker can be used in tests without a registry.
var (
	BreakerState       *prometheus.GaugeVec
	BreakerTransitions *prometheus.CounterVec
)

// MustRegisterMetrics registers breaker collectors on the provided registerer
// (default registerer when nil).
func MustRegisterMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "Current breaker state per target (0 closed, 1 open, 2 half-open).",
	}, []string{"target"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_transitions_total",
		Help:      "Breaker state transitions per target.",
	}, []string{"target", "from_state", "to_state"})

	if err := reg.Register(state); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			state = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			panic(err)
		}
	}
	if err := reg.Register(transitions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			transitions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			panic(err)
		}
	}
	BreakerState = state
	BreakerTransitions = transitions
}
