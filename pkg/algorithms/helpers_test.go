package algorithms

import (
	"fmt"
	"math"
	"testing"

	"github.com/dd0wney/cluso-netanalytics/pkg/graph"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func mustBuild(t *testing.T, b *graph.Builder) *graph.NetworkGraph {
	t.Helper()
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// nodeNames returns n0, n1, ... padded so lexicographic order matches numeric.
func nodeNames(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%03d", i)
	}
	return ids
}

// pathGraph builds A-B-C-D.
func pathGraph(t *testing.T) *graph.NetworkGraph {
	return mustBuild(t, graph.NewBuilder().
		AddNodes("A", "B", "C", "D").
		Connect("A", "B").
		Connect("B", "C").
		Connect("C", "D"))
}

// starGraph builds a hub "hub" with n-1 leaves.
func starGraph(t *testing.T, n int) *graph.NetworkGraph {
	b := graph.NewBuilder().AddNodes("hub")
	for _, id := range nodeNames(n - 1) {
		b.AddNodes(id).Connect("hub", id)
	}
	return mustBuild(t, b)
}

func completeGraph(t *testing.T, n int) *graph.NetworkGraph {
	ids := nodeNames(n)
	b := graph.NewBuilder().AddNodes(ids...)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b.Connect(ids[i], ids[j])
		}
	}
	return mustBuild(t, b)
}

func cycleGraph(t *testing.T, n int) *graph.NetworkGraph {
	ids := nodeNames(n)
	b := graph.NewBuilder().AddNodes(ids...)
	for i := 0; i < n; i++ {
		b.Connect(ids[i], ids[(i+1)%n])
	}
	return mustBuild(t, b)
}

// randomGraph decodes generated integers into a simple graph on n nodes.
// Each pair value p selects the edge (p mod n, p/n mod n); self-loops and
// repeats are skipped.
func randomGraph(n int, pairs []int) (*graph.NetworkGraph, error) {
	ids := nodeNames(n)
	b := graph.NewBuilder().AddNodes(ids...)
	seen := make(map[[2]int]bool)
	if n > 1 {
		for _, p := range pairs {
			a, c := p%n, (p/n)%n
			if a == c {
				continue
			}
			if a > c {
				a, c = c, a
			}
			if seen[[2]int{a, c}] {
				continue
			}
			seen[[2]int{a, c}] = true
			b.Connect(ids[a], ids[c])
		}
	}
	return b.Build()
}

// companyNode is a shorthand for a node with a company.
func companyNode(id, company string) graph.NetworkNode {
	return graph.NetworkNode{ID: id, Name: id, Company: company}
}
