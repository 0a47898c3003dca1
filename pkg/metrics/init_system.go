package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSystemMetrics() {
	factory := promauto.With(r.registry)

	r.BuildInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netanalytics_build_info",
			Help: "Always 1; labels carry the running netanalytics and Go versions",
		},
		[]string{"version", "go_version"},
	)

	r.UptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "netanalytics_uptime_seconds",
			Help: "Seconds since the analytics API started",
		},
	)

	// Betweenness workers and errgroup passes show up here while an analysis
	// is running.
	r.GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "netanalytics_goroutines",
			Help: "Goroutines alive, including analysis workers",
		},
	)

	r.MemoryAllocBytes = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "netanalytics_memory_alloc_bytes",
			Help: "Heap bytes in use, including memoized analysis results",
		},
	)

	r.MemorySysBytes = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "netanalytics_memory_sys_bytes",
			Help: "Bytes obtained from the OS",
		},
	)
}
