package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts shipping quotes by delivery mode and outcome.
	QuoteTotal *prometheus.CounterVec
	// GateTotal counts checkout gate decisions by reason ("ok" when the form passes).
	GateTotal *prometheus.CounterVec
	// GeocodeTotal counts reverse-geocoding lookups by outcome.
	GeocodeTotal *prometheus.CounterVec
	// GeocodeLatency records upstream reverse-geocoding latency in milliseconds.
	GeocodeLatency *prometheus.HistogramVec
	// SubmissionTotal counts order submissions forwarded to the order endpoint.
	SubmissionTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_quote_total",
			Help:      "Count of shipping quotes by delivery mode and result.",
		}, []string{"mode", "result"})
		GateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_gate_total",
			Help:      "Count of checkout form gate decisions by reason.",
		}, []string{"reason"})
		GeocodeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_reverse_total",
			Help:      "Count of reverse geocoding lookups by result.",
		}, []string{"result"})
		GeocodeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_reverse_duration_ms",
			Help:      "Latency of upstream reverse geocoding calls in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"result"})
		SubmissionTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_submission_total",
			Help:      "Count of order submissions by result.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		mustRegisterCollector(reg, GateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				GateTotal = v
			}
		})
		mustRegisterCollector(reg, GeocodeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				GeocodeTotal = v
			}
		})
		mustRegisterCollector(reg, GeocodeLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				GeocodeLatency = v
			}
		})
		mustRegisterCollector(reg, SubmissionTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SubmissionTotal = v
			}
		})
	})
}

// CountQuote increments QuoteTotal when domain metrics are registered.
func CountQuote(mode, result string) {
	if QuoteTotal != nil {
		QuoteTotal.WithLabelValues(mode, result).Inc()
	}
}

// CountGate increments GateTotal when domain metrics are registered.
func CountGate(reason string) {
	if GateTotal != nil {
		GateTotal.WithLabelValues(reason).Inc()
	}
}

// CountGeocode increments GeocodeTotal when domain metrics are registered.
func CountGeocode(result string) {
	if GeocodeTotal != nil {
		GeocodeTotal.WithLabelValues(result).Inc()
	}
}

// ObserveGeocode records upstream latency when domain metrics are registered.
func ObserveGeocode(result string, ms float64) {
	if GeocodeLatency != nil {
		GeocodeLatency.WithLabelValues(result).Observe(ms)
	}
}

// CountSubmission increments SubmissionTotal when domain metrics are registered.
func CountSubmission(result string) {
	if SubmissionTotal != nil {
		SubmissionTotal.WithLabelValues(result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
