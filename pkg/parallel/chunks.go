package parallel

import "fmt"

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indexes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Split divides [0, n) into at most parts contiguous ranges of near-equal
// size. The split depends only on n and parts, so callers that reduce partial
// results in range order get the same answer on every run.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	ranges := make([]Range, 0, parts)
	base, extra := n/parts, n%parts
	start := 0
	for i := 0; i < parts; i++ {
		size := base
		if i < extra {
			size++
		}
		ranges = append(ranges, Range{Start: start, End: start + size})
		start += size
	}
	return ranges
}

// ForEach runs fn for every range on a pool of workers and waits for all of
// them. A single range runs inline. A panic inside fn is re-raised on the
// calling goroutine once every task has finished.
func ForEach(workers int, ranges []Range, fn func(idx int, r Range)) error {
	if len(ranges) == 0 {
		return nil
	}
	if workers <= 1 || len(ranges) == 1 {
		for i, r := range ranges {
			fn(i, r)
		}
		return nil
	}

	if workers > len(ranges) {
		workers = len(ranges)
	}
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

	for i, r := range ranges {
		i, r := i, r
		if !pool.Submit(func() { fn(i, r) }) {
			pool.Close()
			return fmt.Errorf("submit range %d: pool closed", i)
		}
	}
	pool.Close()

	if p := pool.Panic(); p != nil {
		panic(p)
	}
	return nil
}
