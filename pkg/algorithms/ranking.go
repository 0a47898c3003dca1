package algorithms

import (
	"container/heap"
	"fmt"
)

// Measure selects one centrality measure.
type Measure string

const (
	MeasureDegree      Measure = "degree"
	MeasureBetweenness Measure = "betweenness"
	MeasureClustering  Measure = "clustering"
	MeasureEigenvector Measure = "eigenvector"
)

// ParseMeasure validates a measure name.
func ParseMeasure(s string) (Measure, error) {
	switch m := Measure(s); m {
	case MeasureDegree, MeasureBetweenness, MeasureClustering, MeasureEigenvector:
		return m, nil
	default:
		return "", fmt.Errorf("unknown centrality measure %q", s)
	}
}

// RankedNode represents a node with its score for one measure.
type RankedNode struct {
	Index  int     `json:"-"`
	NodeID string  `json:"node_id"`
	Score  float64 `json:"score"`
}

// Scores returns the per-node values of measure m.
func (r *CentralityResult) Scores(m Measure) []float64 {
	switch m {
	case MeasureDegree:
		return r.Degree
	case MeasureBetweenness:
		return r.Betweenness
	case MeasureClustering:
		return r.Clustering
	case MeasureEigenvector:
		return r.Eigenvector
	default:
		return nil
	}
}

// TopNodes returns the n highest-scoring nodes for measure m, highest first.
// Equal scores are ordered by canonical node index.
func (r *CentralityResult) TopNodes(m Measure, n int) []RankedNode {
	return findTopNodes(r.IDs, r.Scores(m), n)
}

// rankedNodeHeap implements a min-heap for RankedNode by score. The lowest
// score sits at the root; among equal scores the later index does.
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Index > h[j].Index
}
func (h rankedNodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// findTopNodes finds the top N nodes by score using a min-heap.
func findTopNodes(ids []string, scores []float64, n int) []RankedNode {
	if n <= 0 || len(scores) == 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for i, score := range scores {
		rn := RankedNode{Index: i, NodeID: ids[i], Score: score}

		if h.Len() < n {
			heap.Push(&h, rn)
		} else if score > h[0].Score {
			// Later indexes never displace an equal score, so ties favour
			// canonical order.
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	// Extract elements from heap (will be in ascending order)
	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}

	return result
}
