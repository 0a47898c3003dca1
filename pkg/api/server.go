// Package api serves the analytics engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-netanalytics/pkg/analytics"
	"github.com/dd0wney/cluso-netanalytics/pkg/api/middleware"
	"github.com/dd0wney/cluso-netanalytics/pkg/config"
	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/health"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/metrics"
)

const (
	// maxGoroutines degrades liveness when exceeded.
	maxGoroutines = 10000
	// systemMetricsInterval is how often runtime gauges are refreshed.
	systemMetricsInterval = 10 * time.Second
)

// NetworkLoader loads a stored contact network. *contactstore.Store
// implements it.
type NetworkLoader interface {
	LoadNetwork(ctx context.Context, ownerID string) (*graph.NetworkGraph, graph.Contacts, error)
	Ping(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	engine    *analytics.Engine
	loader    NetworkLoader
	health    *health.HealthChecker
	metrics   *metrics.Registry
	logger    logging.Logger
	cfg       config.ServerConfig
	version   string
	startTime time.Time
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the registry served on /metrics.
func WithMetrics(registry *metrics.Registry) Option {
	return func(s *Server) {
		s.metrics = registry
	}
}

// WithNetworkLoader enables the stored-network endpoints and the database
// readiness check.
func WithNetworkLoader(loader NetworkLoader) Option {
	return func(s *Server) {
		s.loader = loader
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates a server around engine.
func NewServer(cfg config.ServerConfig, engine *analytics.Engine, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("api: engine is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		engine:    engine,
		logger:    logging.NewNopLogger(),
		metrics:   metrics.DefaultRegistry(),
		cfg:       cfg,
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Component("api"))
	s.metrics.SetBuildInfo(s.version)

	s.health = health.NewHealthChecker(s.version)
	s.health.RegisterLivenessCheck("goroutines", health.GoroutineCheck(maxGoroutines))
	s.health.RegisterLivenessCheck("memory", health.MemoryCheck(0, nil))
	if s.loader != nil {
		s.health.RegisterReadinessCheck("database", health.DatabaseCheck(s.loader))
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.PanicRecovery(s.logger))
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.SecurityHeaders())

	r.Get("/health", s.health.LivenessHandler())
	r.Get("/ready", s.health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.BodySizeLimit(s.cfg.MaxBodyBytes))

		r.Post("/influence", s.handleInfluence)
		r.Post("/communities", s.handleCommunities)
		r.Post("/analyze", s.handleAnalyze)

		r.Route("/owners/{ownerID}", func(r chi.Router) {
			r.Get("/influence", s.handleOwnerInfluence)
			r.Get("/communities", s.handleOwnerCommunities)
			r.Get("/analyze", s.handleOwnerAnalyze)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       2 * s.cfg.ReadTimeout,
	}

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	go s.updateMetricsPeriodically(metricsCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) updateMetricsPeriodically(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	s.metrics.UpdateSystemMetrics(s.startTime)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.metrics.UpdateSystemMetrics(s.startTime)
		}
	}
}
