package algorithms

import (
	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
	"github.com/dd0wney/cluso-netanalytics/pkg/parallel"
	"github.com/dd0wney/cluso-netanalytics/pkg/pools"
)

// CentralityResult holds every centrality measure for a graph, indexed like
// the graph's canonical node order.
type CentralityResult struct {
	IDs         []string  `json:"ids"`
	Degree      []float64 `json:"degree"`
	Betweenness []float64 `json:"betweenness"`
	Clustering  []float64 `json:"clustering"`
	Eigenvector []float64 `json:"eigenvector"`

	EigenvectorIterations int  `json:"eigenvector_iterations"`
	EigenvectorConverged  bool `json:"eigenvector_converged"`
}

// Len returns the number of nodes covered by the result.
func (r *CentralityResult) Len() int {
	return len(r.IDs)
}

// Factors returns the four measures of node i.
func (r *CentralityResult) Factors(i int) Factors {
	return Factors{
		Degree:      r.Degree[i],
		Betweenness: r.Betweenness[i],
		Clustering:  r.Clustering[i],
		Eigenvector: r.Eigenvector[i],
	}
}

// ComputeCentrality runs every centrality measure over g.
func ComputeCentrality(g *graph.NetworkGraph, cfg Config) *CentralityResult {
	eigen := EigenvectorCentrality(g, cfg.EigenvectorTolerance, cfg.EigenvectorMaxIterations)
	return &CentralityResult{
		IDs:                   g.IDs(),
		Degree:                DegreeCentrality(g),
		Betweenness:           BetweennessCentrality(g, cfg.Workers),
		Clustering:            ClusteringCoefficient(g),
		Eigenvector:           eigen.Scores,
		EigenvectorIterations: eigen.Iterations,
		EigenvectorConverged:  eigen.Converged,
	}
}

// DegreeCentrality returns deg(v)/n for every node.
func DegreeCentrality(g *graph.NetworkGraph) []float64 {
	n := g.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(g.Degree(i)) / float64(n)
	}
	return out
}

// BetweennessCentrality computes normalised betweenness for all nodes.
// Measures how often a node appears on shortest paths between other nodes.
// With workers > 1 the sources are split into contiguous chunks whose partial
// sums are added in chunk order, so a given worker count always produces the
// same floating point result.
func BetweennessCentrality(g *graph.NetworkGraph, workers int) []float64 {
	n := g.Len()
	if n == 0 {
		return []float64{}
	}

	ranges := parallel.Split(n, workers)
	partials := make([][]float64, len(ranges))
	err := parallel.ForEach(workers, ranges, func(idx int, r parallel.Range) {
		partials[idx] = brandesSources(g, r.Start, r.End)
	})
	if err != nil {
		// The pool only fails on an out-of-range worker count; fall back to a
		// single pass.
		partials = [][]float64{brandesSources(g, 0, n)}
	}

	betweenness := make([]float64, n)
	for _, partial := range partials {
		for i, v := range partial {
			betweenness[i] += v
		}
	}

	// Each unordered pair is reached from both endpoints, so the raw sum is
	// halved before scaling by 2/((n-1)(n-2)).
	norm := 1.0
	if n > 2 {
		norm = 2.0 / float64((n-1)*(n-2))
	}
	for i := range betweenness {
		betweenness[i] = betweenness[i] / 2 * norm
	}
	return betweenness
}

// brandesSources runs the Brandes accumulation for sources in [from, to) and
// returns the raw, unnormalised dependency sums.
func brandesSources(g *graph.NetworkGraph, from, to int) []float64 {
	n := g.Len()
	acc := make([]float64, n)

	sigma := pools.Float64s.Get(n)
	delta := pools.Float64s.Get(n)
	distance := pools.Ints.Get(n)
	stack := pools.Ints.Get(n)[:0]
	queue := pools.Ints.Get(n)[:0]
	defer func() {
		pools.Float64s.Put(sigma)
		pools.Float64s.Put(delta)
		pools.Ints.Put(distance)
		pools.Ints.Put(stack)
		pools.Ints.Put(queue)
	}()
	predecessors := make([][]int, n)

	for source := from; source < to; source++ {
		for i := 0; i < n; i++ {
			sigma[i] = 0
			distance[i] = -1
			delta[i] = 0
			predecessors[i] = predecessors[i][:0]
		}
		stack = stack[:0]
		queue = append(queue[:0], source)

		sigma[source] = 1
		distance[source] = 0

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)

			for _, w := range g.Neighbors(v) {
				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1.0 + delta[w])
			}
			if w != source {
				acc[w] += delta[w]
			}
		}
	}

	return acc
}
