package algorithms

import (
	"math"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// EigenvectorResult is the outcome of power iteration.
type EigenvectorResult struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// EigenvectorCentrality runs power iteration starting from the uniform vector
// 1/sqrt(n). Each step replaces a node's value with the sum of its neighbours'
// values and L2-normalises the vector. Iteration stops once the largest
// per-node change is below tolerance or after maxIterations steps.
//
// A graph without edges keeps the uniform vector and reports convergence
// without iterating.
func EigenvectorCentrality(g *graph.NetworkGraph, tolerance float64, maxIterations int) EigenvectorResult {
	n := g.Len()
	if n == 0 {
		return EigenvectorResult{Scores: []float64{}, Converged: true}
	}

	scores := make([]float64, n)
	initial := 1.0 / math.Sqrt(float64(n))
	for i := range scores {
		scores[i] = initial
	}

	if g.EdgeCount() == 0 {
		return EigenvectorResult{Scores: scores, Converged: true}
	}

	next := make([]float64, n)
	for iter := 1; iter <= maxIterations; iter++ {
		sumSquares := 0.0
		for i := 0; i < n; i++ {
			sum := 0.0
			for _, j := range g.Neighbors(i) {
				sum += scores[j]
			}
			next[i] = sum
			sumSquares += sum * sum
		}

		norm := math.Sqrt(sumSquares)
		maxDiff := 0.0
		for i := range next {
			if norm > 0 {
				next[i] /= norm
			}
			if diff := math.Abs(next[i] - scores[i]); diff > maxDiff {
				maxDiff = diff
			}
		}

		scores, next = next, scores

		if maxDiff < tolerance {
			return EigenvectorResult{Scores: scores, Iterations: iter, Converged: true}
		}
	}

	return EigenvectorResult{Scores: scores, Iterations: maxIterations}
}
