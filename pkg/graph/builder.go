package graph

// Builder assembles a NetworkGraph incrementally. Connections are recorded in
// both directions so the result is always symmetric. The first error is kept
// and returned by Build.
type Builder struct {
	nodes     []NetworkNode
	seen      map[string]struct{}
	adjacency map[string][]string
	err       error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		seen:      make(map[string]struct{}),
		adjacency: make(map[string][]string),
	}
}

// AddNode registers a node.
func (b *Builder) AddNode(node NetworkNode) *Builder {
	if b.err != nil {
		return b
	}
	if node.ID == "" {
		b.err = newError("AddNode", "", "", ErrEmptyNodeID)
		return b
	}
	if _, exists := b.seen[node.ID]; exists {
		b.err = newError("AddNode", node.ID, "", ErrDuplicateNode)
		return b
	}
	b.seen[node.ID] = struct{}{}
	b.nodes = append(b.nodes, node)
	return b
}

// AddNodes registers several nodes that only carry an ID and name.
func (b *Builder) AddNodes(ids ...string) *Builder {
	for _, id := range ids {
		b.AddNode(NetworkNode{ID: id, Name: id})
	}
	return b
}

// Connect adds an undirected edge between from and to.
func (b *Builder) Connect(from, to string) *Builder {
	if b.err != nil {
		return b
	}
	if from == to {
		b.err = newError("Connect", from, to, ErrSelfLoop)
		return b
	}
	b.adjacency[from] = append(b.adjacency[from], to)
	b.adjacency[to] = append(b.adjacency[to], from)
	return b
}

// Build validates the accumulated input and returns the graph.
func (b *Builder) Build() (*NetworkGraph, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.nodes, b.adjacency)
}
