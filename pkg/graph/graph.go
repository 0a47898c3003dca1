// Package graph holds the immutable contact network that every analytics pass
// reads from. Nodes live in a slice in lexicographic ID order and adjacency is
// stored by index, so iteration order is canonical and there are no pointer
// cycles between nodes.
package graph

import (
	"sort"
)

// NetworkNode is a contact as seen by the analytics core.
type NetworkNode struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	Name        string `json:"name" yaml:"name"`
	Company     string `json:"company,omitempty" yaml:"company,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Position    string `json:"position,omitempty" yaml:"position,omitempty"`
}

// NetworkGraph is an undirected, unweighted contact network.
// It is never mutated after construction.
type NetworkGraph struct {
	nodes []NetworkNode
	index map[string]int
	adj   [][]int // sorted neighbor indexes
	edges int
}

// New builds a NetworkGraph from a node list and an adjacency mapping.
// The adjacency must be symmetric, reference only known nodes and contain no
// self-loops. Nodes missing from adjacency are isolated.
func New(nodes []NetworkNode, adjacency map[string][]string) (*NetworkGraph, error) {
	sorted := make([]NetworkNode, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	index := make(map[string]int, len(sorted))
	for i, n := range sorted {
		if n.ID == "" {
			return nil, newError("New", "", "", ErrEmptyNodeID)
		}
		if _, exists := index[n.ID]; exists {
			return nil, newError("New", n.ID, "", ErrDuplicateNode)
		}
		index[n.ID] = i
	}

	sets := make([]map[int]struct{}, len(sorted))
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}

	keys := make([]string, 0, len(adjacency))
	for id := range adjacency {
		keys = append(keys, id)
	}
	sort.Strings(keys)

	for _, id := range keys {
		from, ok := index[id]
		if !ok {
			return nil, newError("New", id, "", ErrDanglingReference)
		}
		for _, neighbor := range adjacency[id] {
			to, ok := index[neighbor]
			if !ok {
				return nil, newError("New", id, neighbor, ErrDanglingReference)
			}
			if to == from {
				return nil, newError("New", id, neighbor, ErrSelfLoop)
			}
			sets[from][to] = struct{}{}
		}
	}

	g := &NetworkGraph{
		nodes: sorted,
		index: index,
		adj:   make([][]int, len(sorted)),
	}

	degreeSum := 0
	for i, set := range sets {
		neighbors := make([]int, 0, len(set))
		for j := range set {
			if _, ok := sets[j][i]; !ok {
				return nil, newError("New", sorted[i].ID, sorted[j].ID, ErrAsymmetricEdge)
			}
			neighbors = append(neighbors, j)
		}
		sort.Ints(neighbors)
		g.adj[i] = neighbors
		degreeSum += len(neighbors)
	}
	g.edges = degreeSum / 2

	return g, nil
}

// Len returns the number of nodes.
func (g *NetworkGraph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *NetworkGraph) EdgeCount() int {
	return g.edges
}

// Node returns the node stored at index i.
func (g *NetworkGraph) Node(i int) NetworkNode {
	return g.nodes[i]
}

// ID returns the node ID stored at index i.
func (g *NetworkGraph) ID(i int) string {
	return g.nodes[i].ID
}

// Index returns the canonical index of a node ID.
func (g *NetworkGraph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// NodeByID looks up a node by its ID.
func (g *NetworkGraph) NodeByID(id string) (NetworkNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return NetworkNode{}, false
	}
	return g.nodes[i], true
}

// Neighbors returns the sorted neighbor indexes of node i.
// The returned slice is shared and must not be modified.
func (g *NetworkGraph) Neighbors(i int) []int {
	return g.adj[i]
}

// Degree returns the number of neighbors of node i.
func (g *NetworkGraph) Degree(i int) int {
	return len(g.adj[i])
}

// HasEdge reports whether nodes i and j are adjacent.
func (g *NetworkGraph) HasEdge(i, j int) bool {
	neighbors := g.adj[i]
	k := sort.SearchInts(neighbors, j)
	return k < len(neighbors) && neighbors[k] == j
}

// IDs returns all node IDs in canonical order.
func (g *NetworkGraph) IDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Nodes returns a copy of all nodes in canonical order.
func (g *NetworkGraph) Nodes() []NetworkNode {
	out := make([]NetworkNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Adjacency returns the adjacency as an ID-keyed mapping. Every node is
// present, isolated nodes with an empty list.
func (g *NetworkGraph) Adjacency() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for i, n := range g.nodes {
		neighbors := make([]string, len(g.adj[i]))
		for k, j := range g.adj[i] {
			neighbors[k] = g.nodes[j].ID
		}
		out[n.ID] = neighbors
	}
	return out
}

// InternalEdges counts edges with both endpoints in members. Each edge is
// counted once.
func (g *NetworkGraph) InternalEdges(members []int) int {
	in := make(map[int]struct{}, len(members))
	for _, m := range members {
		in[m] = struct{}{}
	}
	count := 0
	for m := range in {
		for _, n := range g.adj[m] {
			if n > m {
				if _, ok := in[n]; ok {
					count++
				}
			}
		}
	}
	return count
}
