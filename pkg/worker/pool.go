/*
Package worker provides a bounded worker pool for concurrent task processing
with optional rate limiting and context cancellation.

Basic usage:

	pool, err := worker.NewPool(worker.Config{Workers: 4, RateLimit: 10})
	if err != nil { ... }

	pool.Start(ctx)
	pool.Submit(worker.Task{ID: 1, Execute: func(ctx context.Context) (worker.Result, error) {
		return worker.Result{ID: 1, Data: "done"}, nil
	}})

	results, err := pool.Wait()
*/
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/time/rate"
)

// Task represents a unit of work to be processed by the pool.
type Task struct {
	// ID identifies the task in error messages.
	ID int

	// Execute performs the actual work. It receives the pool's context
	// for cancellation.
	Execute func(context.Context) (Result, error)
}

// Result is the output of a processed task.
type Result struct {
	// ID matches the task ID that produced this result.
	ID int

	// Data holds the actual result data.
	Data interface{}

	// order preserves submission order across workers.
	order int
}

// Config holds the configuration for the worker pool.
type Config struct {
	// Workers is the number of concurrent workers.
	Workers int

	// RateLimit is the maximum number of task executions per second
	// (0 for unlimited).
	RateLimit int
}

// Pool processes submitted tasks concurrently.
type Pool interface {
	// Start launches the workers. It must be called before Submit.
	Start(context.Context) error

	// Submit queues a task for processing.
	Submit(Task) error

	// Wait blocks until all submitted tasks are processed and returns
	// their results in submission order, or the first task error.
	Wait() ([]Result, error)

	// Stop cancels outstanding work and releases the workers.
	Stop() error
}

type pool struct {
	config  Config
	tasks   chan orderedTask
	results chan Result
	errs    chan error
	limiter *rate.Limiter
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	mu            sync.Mutex
	started       bool
	closed        bool
	resultsClosed bool
	nextOrd       int

	collected []Result
	drained   chan struct{}
}

type orderedTask struct {
	Task
	order int
}

// NewPool creates a worker pool with the given configuration.
func NewPool(config Config) (Pool, error) {
	if config.Workers <= 0 {
		return nil, fmt.Errorf("number of workers must be positive")
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be non-negative")
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	return &pool{
		config:  config,
		tasks:   make(chan orderedTask, config.Workers*2),
		results: make(chan Result, config.Workers*2),
		errs:    make(chan error, 1),
		limiter: limiter,
	}, nil
}

func (p *pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pool already started")
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	// Collect results as they arrive; a full results channel must never
	// block a worker while the producer is still submitting.
	p.drained = make(chan struct{})
	go func() {
		for result := range p.results {
			p.collected = append(p.collected, result)
		}
		close(p.drained)
	}()

	for i := 0; i < p.config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return nil
}

func (p *pool) Submit(task Task) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool not started")
	}
	if p.closed {
		p.mu.Unlock()
		return fmt.Errorf("pool is shutting down")
	}
	order := p.nextOrd
	p.nextOrd++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return fmt.Errorf("pool is shutting down: %w", p.ctx.Err())
	case p.tasks <- orderedTask{task, order}:
		return nil
	}
}

func (p *pool) Wait() ([]Result, error) {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil, fmt.Errorf("pool not started")
	}
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.closeResults()
	<-p.drained

	results := p.collected

	sort.Slice(results, func(i, j int) bool {
		return results[i].order < results[j].order
	})

	select {
	case err := <-p.errs:
		return nil, err
	default:
		return results, nil
	}
}

func (p *pool) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.closed = true
		p.mu.Unlock()
		return nil
	}
	if !p.closed {
		close(p.tasks)
		p.closed = true
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.drained

	return nil
}

// closeResults closes the results channel exactly once so the collector
// goroutine can finish.
func (p *pool) closeResults() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.resultsClosed {
		close(p.results)
		p.resultsClosed = true
	}
}

func (p *pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		if p.limiter != nil {
			if err := p.limiter.Wait(p.ctx); err != nil {
				p.fail(fmt.Errorf("rate limiter: %w", err))
				return
			}
		}

		// A dequeued task abandoned on cancellation must surface as an
		// error from Wait; dropping it silently would let a partial
		// result set pass for a complete one.
		select {
		case <-p.ctx.Done():
			p.fail(p.ctx.Err())
			return
		default:
		}

		result, err := task.Execute(p.ctx)
		if err != nil {
			p.fail(fmt.Errorf("task %d failed: %w", task.ID, err))
			// Fail fast: stop sibling work instead of draining the queue.
			p.cancel()
			return
		}

		result.order = task.order
		select {
		case <-p.ctx.Done():
			p.fail(p.ctx.Err())
			return
		case p.results <- result:
		}
	}
}

// fail records the first error; later ones are dropped.
func (p *pool) fail(err error) {
	select {
	case p.errs <- err:
	default:
	}
}
