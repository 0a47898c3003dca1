package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// routeLabels key API series by chi route pattern, never by raw URL, so
// owner IDs do not become label values.
var routeLabels = []string{"method", "route", "status"}

// requestBuckets stretch past DefBuckets because /v1/analyze on a large
// contact book runs betweenness for every source.
var requestBuckets = []float64{.005, .025, .1, .25, 1, 2.5, 10, 30, 60}

func (r *Registry) initHTTPMetrics() {
	factory := promauto.With(r.registry)

	r.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netanalytics_http_requests_total",
			Help: "API requests by route pattern and response status",
		},
		routeLabels,
	)

	r.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netanalytics_http_request_duration_seconds",
			Help:    "API request latency in seconds, including graph decoding and analysis",
			Buckets: requestBuckets,
		},
		routeLabels,
	)

	r.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "netanalytics_http_requests_in_flight",
			Help: "API requests currently being analysed or served",
		},
	)

	// Ranking and membership bodies grow linearly with the contact book.
	r.HTTPResponseSizeBytes = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netanalytics_http_response_size_bytes",
			Help:    "API response body size in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"method", "route"},
	)
}
