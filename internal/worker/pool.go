package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Task represents a unit of work processed by the pool.
type Task[T any, R any] struct {
	Input   T
	Result  R
	Err     error
	Skipped bool
}

// ProcessFunc is the function signature for processing a single task.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a generic worker pool with a fixed number of in-flight tasks.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

// NewPool creates a new worker pool.
func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{
		workers: workers,
		process: fn,
	}
}

// Execute runs every input through the pool and returns results indexed like
// inputs. Inputs are dispatched in index order, so every input before a
// failing one has been started and runs to completion. Inputs after the
// lowest failing index that have not started yet are marked Skipped.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	inputCh := make(chan int)

	var failedAt atomic.Int64
	failedAt.Store(int64(len(inputs)))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range inputCh {
				results[idx].Input = inputs[idx]
				if int64(idx) > failedAt.Load() {
					results[idx].Skipped = true
					continue
				}

				result, err := p.process(ctx, inputs[idx])
				results[idx].Result = result
				results[idx].Err = err
				if err != nil {
					lowerFailedAt(&failedAt, int64(idx))
					log.Debug().Err(err).Int("worker", workerID).Int("index", idx).Msg("Task failed")
				}
			}
		}(w)
	}

	for i := range inputs {
		inputCh <- i
	}
	close(inputCh)

	wg.Wait()
	return results
}

// FirstError returns the error of the lowest-index failed task.
func FirstError[T any, R any](tasks []Task[T, R]) error {
	for _, t := range tasks {
		if t.Err != nil {
			return t.Err
		}
	}
	return nil
}

func lowerFailedAt(v *atomic.Int64, idx int64) {
	for {
		cur := v.Load()
		if idx >= cur || v.CompareAndSwap(cur, idx) {
			return
		}
	}
}
