package resilience

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricsOnce sync.Once

	// BreakerState reports the current state per upstream: 0=closed, 1=open, 2=half-open.
	BreakerState *prometheus.GaugeVec
	// BreakerTransitions counts state changes per upstream.
	BreakerTransitions *prometheus.CounterVec
	// UpstreamAttempts counts outbound attempts per upstream and outcome.
	UpstreamAttempts *prometheus.CounterVec
)

// MustRegisterMetrics creates and registers the breaker collectors once.
func MustRegisterMetrics(namespace string, reg prometheus.Registerer) {
	metricsOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_breaker_state",
			Help:      "Current breaker state per upstream: 0=closed,1=open,2=half-open.",
		}, []string{"upstream"})
		BreakerTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_breaker_transition_total",
			Help:      "Count of breaker state transitions per upstream.",
		}, []string{"upstream", "from", "to"})
		UpstreamAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_attempt_total",
			Help:      "Outbound attempts per upstream and outcome.",
		}, []string{"upstream", "outcome"})

		register(reg, BreakerState, func(c prometheus.Collector) {
			if v, ok := c.(*prometheus.GaugeVec); ok {
				BreakerState = v
			}
		})
		register(reg, BreakerTransitions, func(c prometheus.Collector) {
			if v, ok := c.(*prometheus.CounterVec); ok {
				BreakerTransitions = v
			}
		})
		register(reg, UpstreamAttempts, func(c prometheus.Collector) {
			if v, ok := c.(*prometheus.CounterVec); ok {
				UpstreamAttempts = v
			}
		})
	})
}

func register(reg prometheus.Registerer, c prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reuse(are.ExistingCollector)
			return
		}
		panic(fmt.Errorf("register resilience metric: %w", err))
	}
}

func countAttempt(upstream, outcome string) {
	if UpstreamAttempts != nil {
		UpstreamAttempts.WithLabelValues(upstream, outcome).Inc()
	}
}
