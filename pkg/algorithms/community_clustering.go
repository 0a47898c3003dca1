package algorithms

import "github.com/dd0wney/cluso-netanalytics/pkg/graph"

// ClusteringCoefficient computes the local clustering coefficient for each
// node: 2T/(k(k-1)) where T is the number of adjacent neighbour pairs and k
// the degree. Nodes with fewer than two neighbours score 0.
func ClusteringCoefficient(g *graph.NetworkGraph) []float64 {
	triangles := TrianglesPerNode(g)
	out := make([]float64, g.Len())
	for i, t := range triangles {
		k := g.Degree(i)
		if k < 2 {
			continue
		}
		out[i] = 2.0 * float64(t) / float64(k*(k-1))
	}
	return out
}

// AverageClusteringCoefficient computes the mean clustering coefficient over
// all nodes. An empty graph averages to 0.
func AverageClusteringCoefficient(g *graph.NetworkGraph) float64 {
	coefficients := ClusteringCoefficient(g)
	if len(coefficients) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range coefficients {
		sum += c
	}
	return sum / float64(len(coefficients))
}
