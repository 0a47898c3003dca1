package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
)

// Report is the combined output of one analysis run.
type Report struct {
	RunID       string                               `json:"run_id"`
	GeneratedAt time.Time                            `json:"generated_at"`
	Duration    time.Duration                        `json:"duration_ns"`
	Summary     algorithms.NetworkSummary            `json:"summary"`
	Influence   []algorithms.InfluenceScore          `json:"influence"`
	Communities *algorithms.CommunityDetectionResult `json:"communities"`
}

// Analyze runs influence scoring and community detection concurrently and
// combines them with a network summary.
func (e *Engine) Analyze(ctx context.Context, g *graph.NetworkGraph, contacts graph.Contacts) (*Report, error) {
	if g == nil {
		return nil, ErrNilGraph
	}

	started := time.Now()
	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: started.UTC(),
	}
	logger := e.logger.With(logging.RunID(report.RunID))
	logger.Info("analysis started", logging.GraphSize(g.Len(), g.EdgeCount())...)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ranked, err := e.RankInfluence(egCtx, g)
		report.Influence = ranked
		return err
	})
	eg.Go(func() error {
		result, err := e.Communities(egCtx, g, contacts)
		report.Communities = result
		return err
	})
	eg.Go(func() error {
		report.Summary = algorithms.Summarize(g)
		return nil
	})

	if err := eg.Wait(); err != nil {
		e.recordFailure("analyze", started)
		logger.Error("analysis failed", logging.Error(err))
		return nil, err
	}

	report.Duration = time.Since(started)
	if e.metrics != nil {
		e.metrics.RecordAnalysis("analyze", "success", report.Duration)
	}
	logger.Info("analysis finished",
		logging.Latency(report.Duration),
		logging.Int("communities", len(report.Communities.Communities)),
		logging.Int("memberships", len(report.Communities.Memberships)))

	return report, nil
}
