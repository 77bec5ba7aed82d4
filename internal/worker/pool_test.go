package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubResult struct {
	id  int
	err error
}

func (r *stubResult) GetError() error { return r.err }

type stubJob struct {
	id       int
	delay    time.Duration
	fail     bool
	panics   bool
	running  *int32
	peak     *int32
	executed *int32
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.running != nil {
		n := atomic.AddInt32(j.running, 1)
		defer atomic.AddInt32(j.running, -1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
	}
	if j.panics {
		panic("malformed page")
	}
	if j.delay > 0 {
		select {
		case <-time.After(j.delay):
		case <-ctx.Done():
			return &stubResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.fail {
		return &stubResult{id: j.id, err: errors.New("fetch failed")}
	}
	return &stubResult{id: j.id}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", p.workers)
	}
}

func TestPool_RunAll(t *testing.T) {
	var executed int32
	jobs := make([]Job, 100)
	for i := range jobs {
		jobs[i] = &stubJob{id: i, executed: &executed, fail: i%10 == 0}
	}

	results := NewPool(3).Run(context.Background(), jobs)

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	if got := atomic.LoadInt32(&executed); got != int32(len(jobs)) {
		t.Errorf("expected %d executed jobs, got %d", len(jobs), got)
	}
	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 10 {
		t.Errorf("expected 10 failures, got %d", failed)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var running, peak int32
	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = &stubJob{id: i, delay: 10 * time.Millisecond, running: &running, peak: &peak}
	}

	NewPool(3).Run(context.Background(), jobs)

	if p := atomic.LoadInt32(&peak); p > 3 || p < 1 {
		t.Errorf("peak concurrency = %d, want 1..3", p)
	}
}

func TestPool_RecoversPanics(t *testing.T) {
	jobs := []Job{&stubJob{id: 0}, &stubJob{id: 1, panics: true}, &stubJob{id: 2}}

	results := NewPool(2).Run(context.Background(), jobs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	var panicked *JobError
	for _, r := range results {
		if je, ok := r.(*JobError); ok {
			panicked = je
		}
	}
	if panicked == nil {
		t.Fatal("expected a JobError for the panicking job")
	}
	if !strings.Contains(panicked.Err.Error(), "malformed page") {
		t.Errorf("unexpected panic error: %v", panicked.Err)
	}
	if panicked.Job.(*stubJob).id != 1 {
		t.Errorf("JobError carries the wrong job")
	}
}

func TestPool_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{&stubJob{delay: time.Second}, &stubJob{delay: time.Second}, &stubJob{delay: time.Second}}
	done := make(chan []Result)
	go func() { done <- NewPool(1).Run(ctx, jobs) }()

	select {
	case results := <-done:
		if len(results) != len(jobs) {
			t.Fatalf("expected a result per job, got %d", len(results))
		}
		for _, r := range results {
			if !errors.Is(r.GetError(), context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", r.GetError())
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run with canceled context did not return")
	}
}

func TestPool_CanceledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = &stubJob{id: i, delay: 20 * time.Millisecond}
	}

	var once sync.Once
	results := NewPool(2).
		OnResult(func(Result) { once.Do(cancel) }).
		Run(ctx, jobs)

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed == 0 {
		t.Error("expected jobs after cancellation to fail")
	}
}

func TestPool_OnResult(t *testing.T) {
	jobs := []Job{&stubJob{id: 0}, &stubJob{id: 1}}
	var seen []Result

	results := NewPool(2).OnResult(func(r Result) { seen = append(seen, r) }).Run(context.Background(), jobs)

	if len(seen) != len(results) {
		t.Errorf("callback saw %d results, Run returned %d", len(seen), len(results))
	}
}
