// Package metrics exposes Prometheus instrumentation for analytics runs and
// the HTTP API.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Analytics Metrics
	AnalysisRunsTotal         *prometheus.CounterVec
	AnalysisDuration          *prometheus.HistogramVec
	GraphNodes                prometheus.Histogram
	GraphEdges                prometheus.Histogram
	PropagationPasses         prometheus.Histogram
	PropagationNotConverged   prometheus.Counter
	EigenvectorIterations     prometheus.Histogram
	EigenvectorNotConverged   prometheus.Counter
	CommunitiesDetected       *prometheus.HistogramVec
	StructuralClustersDropped prometheus.Counter
	ResultCacheRequestsTotal  *prometheus.CounterVec
	ContactStoreLoadsTotal    *prometheus.CounterVec
	ContactStoreLoadDuration  prometheus.Histogram

	// System Metrics
	BuildInfo        *prometheus.GaugeVec
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initHTTPMetrics()
	r.initAnalyticsMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
