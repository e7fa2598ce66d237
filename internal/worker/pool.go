package worker

import (
	"context"
	"sort"
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

type sequenced struct {
	seq int
	job Job
}

type sequencedResult struct {
	seq    int
	result Result
}

// Pool runs jobs on a fixed number of goroutines. Results come back in
// submission order regardless of which worker finished first.
type Pool struct {
	workers    int
	jobQueue   chan sequenced
	results    chan sequencedResult
	submitted  int
	collected  []sequencedResult
	done       chan struct{}
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool bound to ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan sequenced, workers*2), // Buffered to prevent blocking
		results:    make(chan sequencedResult, workers*2),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	// Drain results while jobs are still being submitted
	go func() {
		defer close(p.done)
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case item, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := item.job.Execute(p.ctx)
			select {
			case p.results <- sequencedResult{seq: item.seq, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job; it returns false once the pool is cancelled.
// Submit must not be called concurrently with Wait.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	item := sequenced{seq: p.submitted, job: job}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- item:
		p.submitted++
		return true
	}
}

// Wait waits for all jobs to complete and returns their results in
// submission order. Jobs dropped by cancellation have no result.
func (p *Pool) Wait() []Result {
	// Close job queue to signal workers to exit when done
	close(p.jobQueue)

	p.wg.Wait()
	p.closeResults()
	<-p.done
	p.cancelFunc()

	collected := p.collected

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].seq < collected[j].seq
	})
	results := make([]Result, len(collected))
	for i, r := range collected {
		results[i] = r.result
	}
	return results
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.done
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
