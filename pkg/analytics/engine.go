// Package analytics is the call boundary for the network analytics passes.
// It validates configuration, memoizes results by content fingerprint and
// records logs and metrics around the pure algorithms.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/metrics"
)

// DefaultCacheSize is the number of results kept per operation.
const DefaultCacheSize = 64

// ErrNilGraph is returned when no graph was supplied.
var ErrNilGraph = errors.New("analytics: graph is nil")

// cacheKey identifies an input by content. Influence ignores contacts.
type cacheKey struct {
	graph    uint64
	contacts uint64
}

// Engine runs the analytics passes with memoization.
type Engine struct {
	cfg     algorithms.Config
	logger  logging.Logger
	metrics *metrics.Registry

	cacheSize   int
	influence   *lru.Cache[cacheKey, []algorithms.InfluenceScore]
	communities *lru.Cache[cacheKey, *algorithms.CommunityDetectionResult]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = registry
	}
}

// WithCacheSize sets how many results are memoized per operation. Zero
// disables memoization.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		e.cacheSize = size
	}
}

// NewEngine creates an Engine. The configuration is validated up front.
func NewEngine(cfg algorithms.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analytics config: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		logger:    logging.NewNopLogger(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.cacheSize < 0 {
		return nil, fmt.Errorf("cache size must be non-negative, got %d", e.cacheSize)
	}
	if e.cacheSize > 0 {
		var err error
		if e.influence, err = lru.New[cacheKey, []algorithms.InfluenceScore](e.cacheSize); err != nil {
			return nil, fmt.Errorf("create influence cache: %w", err)
		}
		if e.communities, err = lru.New[cacheKey, *algorithms.CommunityDetectionResult](e.cacheSize); err != nil {
			return nil, fmt.Errorf("create community cache: %w", err)
		}
	}

	e.logger = e.logger.With(logging.Component("analytics"))
	return e, nil
}

// Config returns the engine's analytics configuration.
func (e *Engine) Config() algorithms.Config {
	return e.cfg
}

// InfluenceScores returns node ID to influence score (0-100).
func (e *Engine) InfluenceScores(ctx context.Context, g *graph.NetworkGraph) (map[string]float64, error) {
	ranked, err := e.RankInfluence(ctx, g)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(ranked))
	for _, s := range ranked {
		out[s.NodeID] = s.Score
	}
	return out, nil
}

// RankInfluence returns influence scores sorted by rank.
func (e *Engine) RankInfluence(ctx context.Context, g *graph.NetworkGraph) ([]algorithms.InfluenceScore, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey{graph: g.Fingerprint()}
	if e.influence != nil {
		cached, ok := e.influence.Get(key)
		e.recordCache("influence", ok)
		if ok {
			e.logger.Debug("influence cache hit", logging.GraphSize(g.Len(), g.EdgeCount())...)
			return cloneScores(cached), nil
		}
	}

	timer := logging.StartTimer(e.logger, "influence scored", logging.GraphSize(g.Len(), g.EdgeCount())...)
	centrality := algorithms.ComputeCentrality(g, e.cfg)
	ranked := algorithms.ScoreInfluence(g, centrality, e.cfg.Weights)

	if !centrality.EigenvectorConverged {
		e.logger.Warn("eigenvector centrality did not converge",
			logging.Int("iterations", centrality.EigenvectorIterations))
	}
	timer.EndWithLevel(logging.DebugLevel, "influence scored")

	if e.metrics != nil {
		e.metrics.RecordAnalysis("influence", "success", timer.Elapsed())
		e.metrics.RecordGraphSize(g.Len(), g.EdgeCount())
		e.metrics.RecordEigenvector(centrality.EigenvectorIterations, centrality.EigenvectorConverged)
	}

	if e.influence != nil {
		e.influence.Add(key, cloneScores(ranked))
	}
	return ranked, nil
}

// Communities returns reconciled communities and the membership index.
func (e *Engine) Communities(ctx context.Context, g *graph.NetworkGraph, contacts graph.Contacts) (*algorithms.CommunityDetectionResult, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey{graph: g.Fingerprint(), contacts: contacts.Fingerprint()}
	if e.communities != nil {
		cached, ok := e.communities.Get(key)
		e.recordCache("communities", ok)
		if ok {
			e.logger.Debug("community cache hit", logging.GraphSize(g.Len(), g.EdgeCount())...)
			return cached.Clone(), nil
		}
	}

	timer := logging.StartTimer(e.logger, "communities detected", logging.GraphSize(g.Len(), g.EdgeCount())...)

	attributes := algorithms.AttributeCommunities(g, contacts, e.cfg)
	clusters := algorithms.StructuralClusters(g, contacts, algorithms.ClaimedLabels(attributes), e.cfg)
	result := algorithms.Reconcile(g, contacts, attributes, clusters)

	if !clusters.Propagation.Converged {
		e.logger.Warn("label propagation hit the pass bound",
			logging.Int("passes", clusters.Propagation.Passes),
			logging.Int("moves", clusters.Propagation.Moves))
	}
	timer.EndWithLevel(logging.DebugLevel, "communities detected")

	if e.metrics != nil {
		e.metrics.RecordAnalysis("communities", "success", timer.Elapsed())
		e.metrics.RecordGraphSize(g.Len(), g.EdgeCount())
		e.metrics.RecordPropagation(clusters.Propagation.Passes, clusters.Propagation.Converged)
		e.metrics.RecordCommunities(countByType(result.Communities), clusters.Dropped)
	}

	if e.communities != nil {
		e.communities.Add(key, result.Clone())
	}
	return result, nil
}

// Purge drops every memoized result.
func (e *Engine) Purge() {
	if e.influence != nil {
		e.influence.Purge()
	}
	if e.communities != nil {
		e.communities.Purge()
	}
}

func (e *Engine) recordCache(kind string, hit bool) {
	if e.metrics != nil {
		e.metrics.RecordCacheLookup(kind, hit)
	}
}

func (e *Engine) recordFailure(operation string, started time.Time) {
	if e.metrics != nil {
		e.metrics.RecordAnalysis(operation, "error", time.Since(started))
	}
}

func cloneScores(scores []algorithms.InfluenceScore) []algorithms.InfluenceScore {
	return append([]algorithms.InfluenceScore(nil), scores...)
}

func countByType(communities []algorithms.Community) map[string]int {
	counts := make(map[string]int)
	for _, c := range communities {
		counts[string(c.Type)]++
	}
	return counts
}
