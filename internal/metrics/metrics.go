// Package metrics defines the Prometheus collectors exported by comparenet.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "comparenet"

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing, so tests can pass nil.
type Metrics struct {
	registry *prometheus.Registry

	searches         *prometheus.CounterVec
	searchResults    prometheus.Histogram
	compareMutations *prometheus.CounterVec
	leadSubmissions  *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_searches_total",
			Help:      "Plan searches served, by sort key.",
		}, []string{"sort"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_search_results",
			Help:      "Number of plans matching each search.",
			Buckets:   []float64{0, 1, 3, 6, 12, 24, 48},
		}),
		compareMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compare_mutations_total",
			Help:      "Compare set mutations, by operation.",
		}, []string{"op"}),
		leadSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_submissions_total",
			Help:      "Lead form submissions, by form and outcome.",
		}, []string{"form", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method and status code.",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(
		m.searches,
		m.searchResults,
		m.compareMutations,
		m.leadSubmissions,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns the /metrics exposition handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveSearch records a served search.
func (m *Metrics) ObserveSearch(sort string, results int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(sort).Inc()
	m.searchResults.Observe(float64(results))
}

// CompareMutation records a compare set change.
func (m *Metrics) CompareMutation(op string) {
	if m == nil {
		return
	}
	m.compareMutations.WithLabelValues(op).Inc()
}

// LeadSubmission records a lead form outcome.
func (m *Metrics) LeadSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.leadSubmissions.WithLabelValues(form, outcome).Inc()
}

// InstrumentHandler counts requests by method and status code.
func (m *Metrics) InstrumentHandler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return promhttp.InstrumentHandlerCounter(m.httpRequests, next)
}
