// Package parallel runs independent node-level work across goroutines.
package parallel

import (
	"fmt"
	"sync"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu

	panicOnce sync.Once
	panicVal  any // first recovered task panic
}

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = 256

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum of %d", MaxWorkers)

// NewWorkerPool creates a new worker pool with the given number of workers.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyWorkers, workers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2), // Buffer for 2x workers
	}

	pool.start()
	return pool, nil
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					wp.panicOnce.Do(func() { wp.panicVal = r })
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the worker pool.
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks and waits for queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Panic returns the first value a task panicked with, or nil. Only meaningful
// after Close.
func (wp *WorkerPool) Panic() any {
	return wp.panicVal
}
