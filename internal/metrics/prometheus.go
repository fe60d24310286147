// Package metrics wires the path-engine's request and graph-size counters
// into Prometheus. Grounded verbatim on pkg/metrics/prometheus.go: the
// gRPC-labeled vectors are renamed to HTTP-labeled ones and the flow-solver
// business metrics are replaced with path-computation ones.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the global metrics container.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Path-computation metrics
	PathComputationsTotal *prometheus.CounterVec
	PathComputationTime   *prometheus.HistogramVec
	PathHopCount          *prometheus.HistogramVec
	GraphVerticesTotal    *prometheus.HistogramVec
	GraphEdgesTotal       *prometheus.HistogramVec
	LoadUpdatesTotal      *prometheus.CounterVec

	// System metrics
	MemoryUsage *prometheus.GaugeVec
	Goroutines  prometheus.Gauge

	// Service info
	ServiceInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics builds and registers the metrics vectors.
func InitMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		PathComputationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "path_computations_total",
				Help:      "Total number of path computations",
			},
			[]string{"operation", "status"},
		),

		PathComputationTime: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "path_computation_seconds",
				Help:      "Duration of path computations",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),

		PathHopCount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "path_hop_count",
				Help:      "Number of hops in a computed path",
				Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"operation"},
		),

		GraphVerticesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_vertices_total",
				Help:      "Number of vertices in a loaded graph",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"collection"},
		),

		GraphEdgesTotal: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edges_total",
				Help:      "Number of edges in a loaded graph",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"collection"},
		),

		LoadUpdatesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "load_updates_total",
				Help:      "Total number of edge load update passes",
			},
			[]string{"collection", "status"},
		),

		MemoryUsage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "memory_usage_bytes",
				Help:      "Current memory usage",
			},
			[]string{"type"},
		),

		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "goroutines",
				Help:      "Current number of goroutines",
			},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	defaultMetrics = m
	return m
}

// Get returns the global metrics, lazily initializing them with defaults.
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("jalapeno", "")
	}
	return defaultMetrics
}

// RecordHTTPRequest records one finished HTTP request.
func (m *Metrics) RecordHTTPRequest(route string, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordPathComputation records one path-engine operation (shortest_path,
// best_paths, next_best_paths, rpo_select, ...).
func (m *Metrics) RecordPathComputation(operation string, found bool, duration time.Duration, hopCount int) {
	status := "found"
	if !found {
		status = "not_found"
	}

	m.PathComputationsTotal.WithLabelValues(operation, status).Inc()
	m.PathComputationTime.WithLabelValues(operation).Observe(duration.Seconds())
	if found {
		m.PathHopCount.WithLabelValues(operation).Observe(float64(hopCount))
	}
}

// RecordGraphSize records the size of a graph loaded from a collection.
func (m *Metrics) RecordGraphSize(collection string, vertices, edges int) {
	m.GraphVerticesTotal.WithLabelValues(collection).Observe(float64(vertices))
	m.GraphEdgesTotal.WithLabelValues(collection).Observe(float64(edges))
}

// RecordLoadUpdate records one load-update pass outcome.
func (m *Metrics) RecordLoadUpdate(collection string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.LoadUpdatesTotal.WithLabelValues(collection, status).Inc()
}

// SetServiceInfo publishes the service version/environment as a constant gauge.
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler returns the HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartMetricsServer runs a standalone HTTP server exposing /metrics.
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
