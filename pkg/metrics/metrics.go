// Package metrics defines the Prometheus collectors for the search service
// and exposes an HTTP handler for scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	SearchQueriesTotal  *prometheus.CounterVec
	SearchLatency       prometheus.Histogram
	SearchResultsCount  prometheus.Histogram
	SuggestQueriesTotal prometheus.Counter

	RebuildsTotal    *prometheus.CounterVec
	RebuildDuration  prometheus.Histogram
	IndexDocuments   prometheus.Gauge
	IndexTerms       prometheus.Gauge
	FreshnessState   *prometheus.GaugeVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total search queries by outcome (hit, zero_result, empty_query, error).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Search query latency in seconds, including any synchronous rebuild.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 20, 50},
			},
		),
		SuggestQueriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "suggest_queries_total",
				Help: "Total term-suggestion queries.",
			},
		),
		RebuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_rebuilds_total",
				Help: "Total index rebuilds by trigger (cold, aging, expired, manual) and outcome.",
			},
			[]string{"trigger", "outcome"},
		),
		RebuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_rebuild_duration_seconds",
				Help:    "Wall time of a full corpus fetch plus index build.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		IndexDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_documents",
				Help: "Documents in the currently served index generation.",
			},
		),
		IndexTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_unique_terms",
				Help: "Unique terms in the currently served index generation.",
			},
		),
		FreshnessState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "index_freshness_state",
				Help: "Current freshness state as a one-hot gauge (cold, fresh, aging, expired).",
			},
			[]string{"state"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.SuggestQueriesTotal,
		m.RebuildsTotal,
		m.RebuildDuration,
		m.IndexDocuments,
		m.IndexTerms,
		m.FreshnessState,
	)
	return m
}

// SetFreshnessState sets the one-hot freshness gauge to the given state.
func (m *Metrics) SetFreshnessState(state string) {
	for _, s := range []string{"cold", "fresh", "aging", "expired"} {
		v := 0.0
		if s == state {
			v = 1.0
		}
		m.FreshnessState.WithLabelValues(s).Set(v)
	}
}
