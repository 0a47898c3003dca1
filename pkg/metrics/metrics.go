package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordHTTPResponseSize records the size of a response body
func (r *Registry) RecordHTTPResponseSize(method, route string, size int) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, route).Observe(float64(size))
}

// RecordAnalysis records one analytics run
func (r *Registry) RecordAnalysis(operation, status string, duration time.Duration) {
	r.AnalysisRunsTotal.WithLabelValues(operation, status).Inc()
	r.AnalysisDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordGraphSize records the size of an analysed graph
func (r *Registry) RecordGraphSize(nodes, edges int) {
	r.GraphNodes.Observe(float64(nodes))
	r.GraphEdges.Observe(float64(edges))
}

// RecordPropagation records a label propagation run
func (r *Registry) RecordPropagation(passes int, converged bool) {
	r.PropagationPasses.Observe(float64(passes))
	if !converged {
		r.PropagationNotConverged.Inc()
	}
}

// RecordEigenvector records a power iteration run
func (r *Registry) RecordEigenvector(iterations int, converged bool) {
	r.EigenvectorIterations.Observe(float64(iterations))
	if !converged {
		r.EigenvectorNotConverged.Inc()
	}
}

// RecordCommunities records how many communities of each type a run produced
func (r *Registry) RecordCommunities(byType map[string]int, dropped int) {
	for kind, n := range byType {
		r.CommunitiesDetected.WithLabelValues(kind).Observe(float64(n))
	}
	r.StructuralClustersDropped.Add(float64(dropped))
}

// RecordCacheLookup records a result cache hit or miss
func (r *Registry) RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.ResultCacheRequestsTotal.WithLabelValues(kind, result).Inc()
}

// RecordContactStoreLoad records a contact store load
func (r *Registry) RecordContactStoreLoad(status string, duration time.Duration) {
	r.ContactStoreLoadsTotal.WithLabelValues(status).Inc()
	r.ContactStoreLoadDuration.Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// SetBuildInfo publishes the running version.
func (r *Registry) SetBuildInfo(version string) {
	r.BuildInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// IncHTTPRequestsInFlight marks the start of a request.
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight marks the end of a request.
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}
