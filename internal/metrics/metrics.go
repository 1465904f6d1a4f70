// Package metrics exposes Prometheus instrumentation for the prediction API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeOutOfRange    = "out_of_range"
	OutcomeInternalError = "error"
	OutcomePersistFailed = "persist_failed"
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	duration    prometheus.Histogram
	lastPrice   prometheus.Gauge
}

// New creates and registers the collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "house_predictions_total",
			Help: "Prediction requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "house_prediction_duration_seconds",
			Help:    "Time spent validating, encoding and scoring a house.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		lastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "house_last_predicted_price",
			Help: "Most recent successful price estimate.",
		}),
	}
	reg.MustRegister(
		m.predictions,
		m.duration,
		m.lastPrice,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObservePrediction records one prediction attempt
func (m *Metrics) ObservePrediction(outcome string, took time.Duration, price float64) {
	m.predictions.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
	if outcome == OutcomeSuccess {
		m.lastPrice.Set(price)
	}
}

// IncOutcome counts an outcome without a latency sample
func (m *Metrics) IncOutcome(outcome string) {
	m.predictions.WithLabelValues(outcome).Inc()
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
