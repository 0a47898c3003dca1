package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sizeBuckets covers contact books from a handful of entries to tens of
// thousands.
var sizeBuckets = prometheus.ExponentialBuckets(1, 4, 9)

func (r *Registry) initAnalyticsMetrics() {
	factory := promauto.With(r.registry)

	r.AnalysisRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netanalytics_analysis_runs_total",
			Help: "Total number of analytics runs by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	r.AnalysisDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netanalytics_analysis_duration_seconds",
			Help:    "Analytics run duration in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{"operation"},
	)

	r.GraphNodes = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netanalytics_graph_nodes",
			Help:    "Number of nodes in analysed graphs",
			Buckets: sizeBuckets,
		},
	)

	r.GraphEdges = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netanalytics_graph_edges",
			Help:    "Number of edges in analysed graphs",
			Buckets: sizeBuckets,
		},
	)

	r.PropagationPasses = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netanalytics_label_propagation_passes",
			Help:    "Label propagation passes per community detection run",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	r.PropagationNotConverged = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "netanalytics_label_propagation_not_converged_total",
			Help: "Label propagation runs that hit the pass bound while nodes were still moving",
		},
	)

	r.EigenvectorIterations = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netanalytics_eigenvector_iterations",
			Help:    "Power iteration steps per eigenvector centrality run",
			Buckets: []float64{1, 5, 10, 20, 50, 100},
		},
	)

	r.EigenvectorNotConverged = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "netanalytics_eigenvector_not_converged_total",
			Help: "Eigenvector runs that stopped at the iteration bound",
		},
	)

	r.CommunitiesDetected = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netanalytics_communities_detected",
			Help:    "Communities per detection run by type",
			Buckets: sizeBuckets,
		},
		[]string{"type"},
	)

	r.StructuralClustersDropped = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "netanalytics_structural_clusters_dropped_total",
			Help: "Structural clusters dropped because an attribute community claimed their label",
		},
	)

	r.ResultCacheRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netanalytics_result_cache_requests_total",
			Help: "Result cache lookups by kind and outcome",
		},
		[]string{"kind", "result"},
	)

	r.ContactStoreLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netanalytics_contact_store_loads_total",
			Help: "Network loads from the contact store by outcome",
		},
		[]string{"status"},
	)

	r.ContactStoreLoadDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netanalytics_contact_store_load_duration_seconds",
			Help:    "Contact store load latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
}
