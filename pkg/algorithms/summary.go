package algorithms

import "github.com/dd0wney/cluso-netanalytics/pkg/graph"

// NetworkSummary describes the overall shape of a contact network.
type NetworkSummary struct {
	Nodes                int     `json:"nodes"`
	Edges                int     `json:"edges"`
	Density              float64 `json:"density"`
	AverageDegree        float64 `json:"average_degree"`
	AverageClustering    float64 `json:"average_clustering"`
	Triangles            int     `json:"triangles"`
	Components           int     `json:"components"`
	LargestComponentSize int     `json:"largest_component_size"`
	IsolatedNodes        int     `json:"isolated_nodes"`
}

// Summarize computes a NetworkSummary for g.
func Summarize(g *graph.NetworkGraph) NetworkSummary {
	n := g.Len()
	summary := NetworkSummary{
		Nodes:             n,
		Edges:             g.EdgeCount(),
		Density:           density(g.EdgeCount(), n),
		AverageClustering: AverageClusteringCoefficient(g),
		Triangles:         TriangleCount(g),
	}
	if n > 0 {
		summary.AverageDegree = 2.0 * float64(g.EdgeCount()) / float64(n)
	}

	components := ConnectedComponents(g)
	summary.Components = len(components)
	for _, c := range components {
		if len(c) > summary.LargestComponentSize {
			summary.LargestComponentSize = len(c)
		}
	}

	for i := 0; i < n; i++ {
		if g.Degree(i) == 0 {
			summary.IsolatedNodes++
		}
	}

	return summary
}

// density returns internalEdges / (size(size-1)/2), or 0 for groups smaller
// than two.
func density(internalEdges, size int) float64 {
	if size < 2 {
		return 0
	}
	return float64(internalEdges) / (float64(size) * float64(size-1) / 2.0)
}
