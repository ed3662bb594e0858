package pmap

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrWorkerFailure is wrapped by every error a task returns through Map.
var ErrWorkerFailure = errors.New("worker failure")

// WorkerError reports the failing task's input index.
type WorkerError struct {
	Index int
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("task %d: %v", e.Index, e.Err)
}

func (e *WorkerError) Unwrap() []error { return []error{ErrWorkerFailure, e.Err} }

// Pool bounds the number of tasks running at once. One Pool may be shared
// by concurrent Map calls; the bound then applies to all of them together.
type Pool struct {
	workers int
	sem     *semaphore.Weighted
}

// NewPool returns a pool of the given size. workers <= 0 means GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers, sem: semaphore.NewWeighted(int64(workers))}
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

func (p *Pool) run(ctx context.Context, task func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return task()
}

// Map applies fn to every input on pool and returns the results in input
// order. If a task fails, the context passed to the remaining tasks is
// cancelled and, once every started task has returned, Map returns a
// *WorkerError for the first task that failed. A nil pool uses
// NewPool(0). Empty inputs return an empty slice without starting anything.
func Map[In, Out any](ctx context.Context, pool *Pool, inputs []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	out := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return out, nil
	}
	if pool == nil {
		pool = NewPool(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.workers)
	for i, in := range inputs {
		g.Go(func() error {
			err := pool.run(gctx, func() error {
				v, err := fn(gctx, in)
				if err != nil {
					return err
				}
				out[i] = v
				return nil
			})
			if err != nil {
				return &WorkerError{Index: i, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Result is the outcome of one MapAll task.
type Result[Out any] struct {
	Value Out
	// Err is a *WorkerError, or nil.
	Err error
}

// MapAll is like Map but never stops early: every input gets a result, and
// a failing task does not cancel the others. Cancelling ctx fails the tasks
// that have not started yet.
func MapAll[In, Out any](ctx context.Context, pool *Pool, inputs []In, fn func(context.Context, In) (Out, error)) []Result[Out] {
	out := make([]Result[Out], len(inputs))
	if len(inputs) == 0 {
		return out
	}
	if pool == nil {
		pool = NewPool(0)
	}

	var g errgroup.Group
	g.SetLimit(pool.workers)
	for i, in := range inputs {
		g.Go(func() error {
			err := pool.run(ctx, func() error {
				v, err := fn(ctx, in)
				out[i].Value = v
				return err
			})
			if err != nil {
				out[i].Err = &WorkerError{Index: i, Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
