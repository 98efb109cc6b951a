package ccv

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool manages concurrent per-label analysis tasks
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
	closed   atomic.Bool

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	activeWorkers atomic.Int64
	pending       sync.WaitGroup
}

// PoolStats is a snapshot of the pool's counters
type PoolStats struct {
	TotalJobs     int64
	CompletedJobs int64
	ActiveWorkers int64
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

// worker processes jobs from the job queue
func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		wp.activeWorkers.Add(1)
		job()
		wp.activeWorkers.Add(-1)
		wp.completedJobs.Add(1)
		wp.pending.Done()
	}
}

// Submit adds a job to the worker pool queue. Returns false once the pool
// has been closed.
func (wp *WorkerPool) Submit(job func()) bool {
	if wp.closed.Load() {
		return false
	}
	wp.totalJobs.Add(1)
	wp.pending.Add(1)
	wp.jobQueue <- job
	return true
}

// Wait blocks until all submitted jobs have completed
func (wp *WorkerPool) Wait() {
	wp.pending.Wait()
}

// GetStats returns a snapshot of the pool counters
func (wp *WorkerPool) GetStats() PoolStats {
	return PoolStats{
		TotalJobs:     wp.totalJobs.Load(),
		CompletedJobs: wp.completedJobs.Load(),
		ActiveWorkers: wp.activeWorkers.Load(),
	}
}

// Close shuts down the worker pool
func (wp *WorkerPool) Close() {
	if wp.closed.CompareAndSwap(false, true) {
		close(wp.jobQueue)
	}
}
