// Package metrics registers helium's Prometheus metrics on a private
// registry and exposes them over the /metrics handler.  The service and HTTP
// layers record into the one Metrics instance built at startup; the core
// search packages stay free of instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram buckets tuned for in-memory graph search on one side and
// database round trips on the other.
var (
	searchDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}
	httpDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	matchCountBuckets     = []float64{0, 1, 2, 5, 10, 50, 100, 500, 1000}
)

// Metrics holds all collectors.  One instance is shared by the whole
// process; all collectors are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP layer.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Search service.
	SearchesTotal      *prometheus.CounterVec
	SearchDuration     *prometheus.HistogramVec
	SearchMatchCount   prometheus.Histogram
	CompileErrorsTotal prometheus.Counter
	PatternCacheHits   prometheus.Counter
	PatternCacheMisses prometheus.Counter

	// Result cache.
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Molecule registry.
	MoleculesTotal  prometheus.Gauge
	DBQueryDuration *prometheus.HistogramVec
}

// New builds the Metrics instance on a fresh registry, optionally including
// the standard process and Go runtime collectors.
func New(namespace string, runtimeCollectors bool) *Metrics {
	registry := prometheus.NewRegistry()
	if runtimeCollectors {
		registry.MustRegister(
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
			prometheus.NewGoCollector(),
		)
	}

	factory := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: namespace, Name: name, Help: help}
	}

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts(
		factory("http_requests_total", "HTTP requests by method, path and status.")),
		[]string{"method", "path", "status"})
	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration.",
		Buckets:   httpDurationBuckets,
	}, []string{"method", "path"})

	m.SearchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts(
		factory("searches_total", "Substructure searches by result mode and outcome.")),
		[]string{"mode", "outcome"})
	m.SearchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Substructure search duration.",
		Buckets:   searchDurationBuckets,
	}, []string{"mode"})
	m.SearchMatchCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_match_count",
		Help:      "Embeddings found per search.",
		Buckets:   matchCountBuckets,
	})
	m.CompileErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts(
		factory("smarts_compile_errors_total", "SMARTS inputs rejected by the compiler.")))
	m.PatternCacheHits = prometheus.NewCounter(prometheus.CounterOpts(
		factory("pattern_cache_hits_total", "Compiled pattern cache hits.")))
	m.PatternCacheMisses = prometheus.NewCounter(prometheus.CounterOpts(
		factory("pattern_cache_misses_total", "Compiled pattern cache misses.")))

	m.CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts(
		factory("result_cache_hits_total", "Search result cache hits.")))
	m.CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts(
		factory("result_cache_misses_total", "Search result cache misses.")))

	m.MoleculesTotal = prometheus.NewGauge(prometheus.GaugeOpts(
		factory("molecules_total", "Molecules in the registry.")))
	m.DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query duration.",
		Buckets:   httpDurationBuckets,
	}, []string{"query"})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchesTotal,
		m.SearchDuration,
		m.SearchMatchCount,
		m.CompileErrorsTotal,
		m.PatternCacheHits,
		m.PatternCacheMisses,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.MoleculesTotal,
		m.DBQueryDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
