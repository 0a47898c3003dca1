package health

import (
	"context"
	"runtime"
)

// Pinger is satisfied by the contact store and by pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseCheck reports whether the contact store answers a ping.
func DatabaseCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) Check {
		check := Check{Name: "database"}
		if err := p.Ping(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		check.Status = StatusHealthy
		check.Message = "Connected"
		return check
	}
}

// GoroutineCheck degrades once the goroutine count exceeds limit. Analysis
// workers are bounded, so a runaway count means something leaked.
func GoroutineCheck(limit int) CheckFunc {
	return func(ctx context.Context) Check {
		n := runtime.NumGoroutine()
		check := Check{
			Name:    "goroutines",
			Details: map[string]any{"count": n, "limit": limit},
			Status:  StatusHealthy,
		}
		if n > limit {
			check.Status = StatusDegraded
			check.Message = "Goroutine count above limit"
		}
		return check
	}
}

// MemoryCheck degrades when heap allocation exceeds maxAllocBytes. usage
// defaults to the runtime's own statistics when nil.
func MemoryCheck(maxAllocBytes uint64, usage func() (alloc, sys uint64)) CheckFunc {
	if usage == nil {
		usage = runtimeMemory
	}
	return func(ctx context.Context) Check {
		alloc, sys := usage()
		check := Check{
			Name: "memory",
			Details: map[string]any{
				"alloc_bytes": alloc,
				"sys_bytes":   sys,
			},
			Status:  StatusHealthy,
			Message: "Memory usage normal",
		}
		if maxAllocBytes > 0 && alloc > maxAllocBytes {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}

func runtimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
