package algorithms

import "github.com/dd0wney/cluso-netanalytics/pkg/graph"

// TrianglesPerNode counts, for every node, the neighbour pairs that are
// themselves adjacent. Neighbour lists are sorted, so each pair is checked
// with a binary search.
func TrianglesPerNode(g *graph.NetworkGraph) []int {
	n := g.Len()
	perNode := make([]int, n)
	for u := 0; u < n; u++ {
		neighbors := g.Neighbors(u)
		count := 0
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				if g.HasEdge(neighbors[i], neighbors[j]) {
					count++
				}
			}
		}
		perNode[u] = count
	}
	return perNode
}

// TriangleCount returns the number of distinct triangles in g.
func TriangleCount(g *graph.NetworkGraph) int {
	total := 0
	for _, c := range TrianglesPerNode(g) {
		total += c
	}
	// Each triangle is counted once per vertex.
	return total / 3
}
