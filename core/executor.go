package core

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type executorConfig struct {
	logger  Logger
	runID   string
	onEvent func(RunEvent)
}

type ExecutorOption func(*executorConfig)

func ExecutorWithLogger(logger Logger) ExecutorOption {
	return func(c *executorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ExecutorWithRunID tags log lines and events with an identifier.
func ExecutorWithRunID(id string) ExecutorOption {
	return func(c *executorConfig) {
		c.runID = id
	}
}

func ExecutorWithEventHandler(fn func(RunEvent)) ExecutorOption {
	return func(c *executorConfig) {
		c.onEvent = fn
	}
}

// ParallelExecutor runs batches one after another. Items of a batch run
// concurrently on at most workers goroutines and the next batch starts only
// after every item of the current one returned.
type ParallelExecutor[T any] struct {
	workers int
	config  executorConfig
	state   RunState
}

func NewParallelExecutor[T any](workers int, opts ...ExecutorOption) (*ParallelExecutor[T], error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkerCount
	}

	config := executorConfig{
		logger: NopLogger{},
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &ParallelExecutor[T]{
		workers: workers,
		config:  config,
		state:   RunStateIdle,
	}, nil
}

func (e *ParallelExecutor[T]) Workers() int {
	return e.workers
}

// State is the state reached by the last Run.
func (e *ParallelExecutor[T]) State() RunState {
	return e.state
}

// Run drains the batcher and returns one result per item in submission
// order. If any item fails, the whole run fails with a *BatchError and no
// results are returned.
func (e *ParallelExecutor[T]) Run(ctx context.Context, batches *Batcher[Callable[T]]) ([]T, error) {
	e.transition(RunEvent{State: RunStateIdle, Batch: -1})

	results := make([]T, 0)
	for k := 0; batches.HasNext(); k++ {
		if err := ctx.Err(); err != nil {
			return nil, e.fail(k, err)
		}

		batch, err := batches.Next()
		if err != nil {
			return nil, e.fail(k, err)
		}

		e.config.logger.Debugf("run %s: executing batch %d with size <%d>", e.config.runID, k, len(batch))
		e.transition(RunEvent{State: RunStateBatchRunning, Batch: k, Size: len(batch)})

		out, err := e.runBatch(ctx, k, batch)
		if err != nil {
			return nil, e.fail(k, err)
		}

		results = append(results, out...)
	}

	e.config.logger.Debugf("run %s: done with %d results", e.config.runID, len(results))
	e.transition(RunEvent{State: RunStateDone, Batch: -1})

	return results, nil
}

func (e *ParallelExecutor[T]) runBatch(ctx context.Context, k int, batch []Callable[T]) ([]T, error) {
	// results are placed by submission index, completion order is irrelevant
	slots := make([]T, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, item := range batch {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &BatchError{Batch: k, Position: i, Err: fmt.Errorf("panic: %v", r)}
				}
			}()

			res, err := item.Call(gctx)
			if err != nil {
				return &BatchError{Batch: k, Position: i, Err: err}
			}

			slots[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slots, nil
}

func (e *ParallelExecutor[T]) fail(k int, err error) error {
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		batchErr = &BatchError{Batch: k, Position: -1, Err: err}
	}

	e.config.logger.Errorf("run %s: %s", e.config.runID, batchErr)
	e.transition(RunEvent{State: RunStateFailed, Batch: k, Err: batchErr})

	return batchErr
}

func (e *ParallelExecutor[T]) transition(ev RunEvent) {
	e.state = ev.State
	ev.RunID = e.config.runID

	if e.config.onEvent != nil {
		e.config.onEvent(ev)
	}
}
