// Package pools provides size-class slice pooling for the scratch buffers of
// graph traversals.
//
// Betweenness centrality runs one breadth-first search per source node and
// needs several node-sized buffers for each. Repeated analyses of networks of
// similar size reuse those buffers instead of reallocating them.
//
//   - Float64s: path counts and dependency accumulators
//   - Ints: distances, stacks and queues
package pools

import (
	"sync"
)

// Default size classes. Slices larger than the last class are not pooled.
const (
	SmallSize  = 64
	MediumSize = 1024
	LargeSize  = 16384
)

// SlicePool pools slices of T in capacity classes.
type SlicePool[T any] struct {
	classes []int
	pools   []sync.Pool
}

// NewSlicePool creates a pool with the given ascending capacity classes.
func NewSlicePool[T any](classes ...int) *SlicePool[T] {
	p := &SlicePool[T]{
		classes: classes,
		pools:   make([]sync.Pool, len(classes)),
	}
	for i, c := range classes {
		capacity := c
		p.pools[i].New = func() any {
			s := make([]T, 0, capacity)
			return &s
		}
	}
	return p
}

func (p *SlicePool[T]) class(size int) int {
	for i, c := range p.classes {
		if size <= c {
			return i
		}
	}
	return -1
}

// Get returns a zeroed slice of length n.
func (p *SlicePool[T]) Get(n int) []T {
	idx := p.class(n)
	if idx < 0 {
		return make([]T, n)
	}
	sp, ok := p.pools[idx].Get().(*[]T)
	if !ok || cap(*sp) < n {
		return make([]T, n, p.classes[idx])
	}
	s := (*sp)[:n]
	clear(s)
	return s
}

// Put returns s to the pool. Slices whose capacity matches no class exactly
// are dropped so every pooled slice satisfies its class.
func (p *SlicePool[T]) Put(s []T) {
	c := cap(s)
	for i, class := range p.classes {
		if c == class {
			s = s[:0]
			p.pools[i].Put(&s)
			return
		}
		if c < class {
			return
		}
	}
}

// Default pools shared by the algorithms package.
var (
	Float64s = NewSlicePool[float64](SmallSize, MediumSize, LargeSize)
	Ints     = NewSlicePool[int](SmallSize, MediumSize, LargeSize)
)
