package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcome labels
const (
	outcomeUnavailable  = "unavailable"
	outcomeSuccess      = "success"
	outcomeFallbackText = "fallback_text"
	outcomeBlocked      = "blocked"
	outcomeEmpty        = "empty"
	outcomeError        = "error"
)

// Metrics holds the Prometheus collectors for event searches. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	searchTotal *prometheus.CounterVec
	modelCall   prometheus.Histogram
	inFlight    prometheus.Gauge
}

// NewMetrics registers the collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.searchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventfinder",
		Name:      "searches_total",
		Help:      "Event searches by outcome",
	}, []string{"outcome"})
	m.modelCall = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "eventfinder",
		Name:      "model_call_duration_seconds",
		Help:      "Time spent waiting for the language model",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
	})
	m.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventfinder",
		Name:      "model_calls_in_flight",
		Help:      "Model calls currently running",
	})

	m.registry.MustRegister(
		m.searchTotal, m.modelCall, m.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) recordSearch(outcome string) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) startModelCall() func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func() {
		m.inFlight.Dec()
		m.modelCall.Observe(time.Since(start).Seconds())
	}
}

func outcomeLabel(o Outcome) string {
	switch o {
	case OutcomeText:
		return outcomeSuccess
	case OutcomeFallbackText:
		return outcomeFallbackText
	case OutcomeBlocked:
		return outcomeBlocked
	default:
		return outcomeEmpty
	}
}
