package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

// ConnectedComponents groups node indexes into connected components using BFS.
// Components are ordered by their smallest member and members are sorted.
func ConnectedComponents(g *graph.NetworkGraph) [][]int {
	n := g.Len()
	visited := make([]bool, n)
	var components [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := []int{start}
		visited[start] = true
		for head := 0; head < len(component); head++ {
			for _, neighbor := range g.Neighbors(component[head]) {
				if !visited[neighbor] {
					visited[neighbor] = true
					component = append(component, neighbor)
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}

	return components
}
