package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// Factors are the centrality inputs to an influence score.
type Factors struct {
	Degree      float64 `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Clustering  float64 `json:"clustering"`
	Eigenvector float64 `json:"eigenvector"`
}

// Weighted combines the factors with w.
func (f Factors) Weighted(w ScoringWeights) float64 {
	return w.Degree*f.Degree +
		w.Betweenness*f.Betweenness +
		w.Clustering*f.Clustering +
		w.Eigenvector*f.Eigenvector
}

// InfluenceScore is one node's ranked influence.
type InfluenceScore struct {
	NodeID   string  `json:"node_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`     // 0-100
	RawScore float64 `json:"raw_score"` // weighted sum before scaling
	Rank     int     `json:"rank"`      // 1-based
	Factors  Factors `json:"factors"`
}

// ScoreInfluence combines centrality measures into ranked influence scores.
// Entries are sorted by raw score descending; equal scores keep canonical node
// order, and ranks run 1..n without gaps.
func ScoreInfluence(g *graph.NetworkGraph, centrality *CentralityResult, weights ScoringWeights) []InfluenceScore {
	scores := make([]InfluenceScore, centrality.Len())
	for i, id := range centrality.IDs {
		factors := centrality.Factors(i)
		raw := factors.Weighted(weights)
		scores[i] = InfluenceScore{
			NodeID:   id,
			Name:     g.Node(i).Name,
			Score:    raw * 100,
			RawScore: raw,
			Factors:  factors,
		}
	}
	return RankInfluence(scores)
}

// RankInfluence stable-sorts scores by raw score descending and assigns ranks.
// The slice is sorted in place and returned.
func RankInfluence(scores []InfluenceScore) []InfluenceScore {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].RawScore > scores[j].RawScore
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}

// InfluenceScores computes node ID to 0-100 influence score for g.
func InfluenceScores(g *graph.NetworkGraph, cfg Config) map[string]float64 {
	ranked := ScoreInfluence(g, ComputeCentrality(g, cfg), cfg.Weights)
	out := make(map[string]float64, len(ranked))
	for _, s := range ranked {
		out[s.NodeID] = s.Score
	}
	return out
}

// TopInfluencers returns the first n entries of a ranked list.
func TopInfluencers(ranked []InfluenceScore, n int) []InfluenceScore {
	if n <= 0 {
		return nil
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]InfluenceScore, n)
	copy(out, ranked[:n])
	return out
}
