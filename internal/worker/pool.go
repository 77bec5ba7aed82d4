// Package worker runs article checks concurrently with per-host rate
// limiting.
package worker

import (
	"context"
	"fmt"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobError is the result of a job that panicked or never ran because the
// context was canceled first
type JobError struct {
	Job Job
	Err error
}

// GetError implements Result
func (r *JobError) GetError() error { return r.Err }

// Pool runs jobs on a fixed number of workers
type Pool struct {
	workers  int
	onResult func(Result)
}

// NewPool creates a pool with the given number of workers (at least one)
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// OnResult registers fn to be called, from a single goroutine, as each
// result arrives
func (p *Pool) OnResult(fn func(Result)) *Pool {
	p.onResult = fn
	return p
}

// Run executes every job and returns one result per job, in completion
// order. Jobs still queued when ctx is canceled yield a JobError.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	queue := make(chan Job)
	results := make(chan Result, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				results <- execute(ctx, job)
			}
		}()
	}

	go func() {
		defer close(results)
		for i, job := range jobs {
			select {
			case queue <- job:
			case <-ctx.Done():
				close(queue)
				for _, skipped := range jobs[i:] {
					results <- &JobError{Job: skipped, Err: ctx.Err()}
				}
				wg.Wait()
				return
			}
		}
		close(queue)
		wg.Wait()
	}()

	out := make([]Result, 0, len(jobs))
	for r := range results {
		if p.onResult != nil {
			p.onResult(r)
		}
		out = append(out, r)
	}
	return out
}

func execute(ctx context.Context, job Job) (res Result) {
	defer func() {
		if v := recover(); v != nil {
			res = &JobError{Job: job, Err: fmt.Errorf("job panicked: %v", v)}
		}
	}()
	return job.Execute(ctx)
}
