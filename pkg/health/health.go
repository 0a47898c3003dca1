// Package health reports liveness and readiness of the analytics service.
package health

import (
	"context"
	"time"
)

// DefaultCheckTimeout bounds each probe.
const DefaultCheckTimeout = 2 * time.Second

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		liveChecks:  make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		startTime:   time.Now(),
		timeout:     DefaultCheckTimeout,
		version:     version,
	}
}

// SetTimeout changes the per-probe deadline. Non-positive values are ignored.
func (hc *HealthChecker) SetTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.timeout = d
}

// RegisterLivenessCheck registers a check that reports whether the process
// should be restarted.
func (hc *HealthChecker) RegisterLivenessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.liveChecks[name] = check
}

// RegisterReadinessCheck registers a check that gates incoming traffic.
func (hc *HealthChecker) RegisterReadinessCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.readyChecks[name] = check
}

// CheckLiveness performs liveness checks
func (hc *HealthChecker) CheckLiveness(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.performChecks(ctx, hc.liveChecks)
}

// CheckReadiness performs liveness and readiness checks together. A process
// that is not alive is never ready.
func (hc *HealthChecker) CheckReadiness(ctx context.Context) Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	all := make(map[string]CheckFunc, len(hc.liveChecks)+len(hc.readyChecks))
	for name, fn := range hc.liveChecks {
		all[name] = fn
	}
	for name, fn := range hc.readyChecks {
		all[name] = fn
	}
	return hc.performChecks(ctx, all)
}

func (hc *HealthChecker) performChecks(ctx context.Context, checks map[string]CheckFunc) Response {
	response := Response{
		Status:    StatusHealthy,
		Version:   hc.version,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    time.Since(hc.startTime).Seconds(),
	}

	for name, checkFunc := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, hc.timeout)
		start := time.Now()
		check := checkFunc(checkCtx)
		cancel()

		if check.Name == "" {
			check.Name = name
		}
		check.Duration = time.Since(start)
		check.LastChecked = start
		response.Checks[name] = check

		// Worst status wins.
		switch check.Status {
		case StatusUnhealthy:
			response.Status = StatusUnhealthy
		case StatusDegraded:
			if response.Status != StatusUnhealthy {
				response.Status = StatusDegraded
			}
		}
	}

	return response
}
