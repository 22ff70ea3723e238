// Package metrics exposes prometheus collectors for shopping list exports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors recorded by the shopping list service
type Metrics struct {
	registry *prometheus.Registry

	exports        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	reportEntries  prometheus.Histogram
}

// New creates and registers the collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodgram",
			Name:      "shopping_list_exports_total",
			Help:      "Shopping list exports by document format and outcome.",
		}, []string{"format", "status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "foodgram",
			Name:      "shopping_list_render_seconds",
			Help:      "Time spent rendering a shopping list document.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"format"}),
		reportEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "foodgram",
			Name:      "shopping_list_entries",
			Help:      "Number of aggregated entries per exported shopping list.",
			Buckets:   prometheus.LinearBuckets(0, 10, 10),
		}),
	}

	m.registry.MustRegister(
		m.exports,
		m.renderDuration,
		m.reportEntries,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveExport records the outcome of one export
func (m *Metrics) ObserveExport(format string, entries int, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.exports.WithLabelValues(format, status).Inc()
	m.renderDuration.WithLabelValues(format).Observe(elapsed.Seconds())
	if err == nil {
		m.reportEntries.Observe(float64(entries))
	}
}

// ObserveReportFailure records an export that failed before rendering started
func (m *Metrics) ObserveReportFailure(format string) {
	m.exports.WithLabelValues(format, "error").Inc()
}

// Registry returns the underlying registry (used by tests)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
