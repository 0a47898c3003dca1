package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the outcome of probing one component.
type Check struct {
	Name        string         `json:"name"`
	Status      Status         `json:"status"`
	Message     string         `json:"message,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	LastChecked time.Time      `json:"last_checked"`
	Duration    time.Duration  `json:"duration_ms"`
}

// CheckFunc probes a component. It must honor ctx.
type CheckFunc func(ctx context.Context) Check

// HealthChecker aggregates liveness and readiness checks.
type HealthChecker struct {
	mu          sync.RWMutex
	liveChecks  map[string]CheckFunc
	readyChecks map[string]CheckFunc
	startTime   time.Time
	timeout     time.Duration
	version     string
}

// Response represents the overall health response
type Response struct {
	Status    Status           `json:"status"`
	Version   string           `json:"version,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	Uptime    float64          `json:"uptime_seconds"`
}
