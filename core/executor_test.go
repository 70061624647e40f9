package core_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/macwille/pquery/core"
)

func callables[T any](fns ...func(context.Context) (T, error)) []core.Callable[T] {
	out := make([]core.Callable[T], len(fns))
	for i, fn := range fns {
		out[i] = core.CallableFunc[T](fn)
	}
	return out
}

func runAll[T any](t *testing.T, workers, size int, items []core.Callable[T], opts ...core.ExecutorOption) ([]T, error) {
	t.Helper()

	executor, err := core.NewParallelExecutor[T](workers, opts...)
	require.NoError(t, err)

	batches, err := core.NewBatcher(items, size)
	require.NoError(t, err)

	return executor.Run(context.Background(), batches)
}

func TestParallelExecutor_Order(t *testing.T) {
	r := require.New(t)

	const n = 50
	fns := make([]func(context.Context) (int, error), n)
	for i := range fns {
		delay := time.Duration(rand.Intn(20)) * time.Millisecond
		fns[i] = func(ctx context.Context) (int, error) {
			time.Sleep(delay)
			return i, nil
		}
	}

	results, err := runAll(t, 8, 8, callables(fns...))
	r.NoError(err)
	r.Len(results, n)
	for i, res := range results {
		r.Equal(i, res)
	}
}

func TestParallelExecutor_BatchesAreSequential(t *testing.T) {
	r := require.New(t)

	const (
		n       = 23
		workers = 5
	)

	var (
		mu       sync.Mutex
		finished int
		running  atomic.Int32
		peak     atomic.Int32
	)

	fns := make([]func(context.Context) (int, error), n)
	for i := range fns {
		batch := i / workers
		fns[i] = func(ctx context.Context) (int, error) {
			mu.Lock()
			// every item of the previous batches is done before this one starts
			done := finished
			mu.Unlock()
			if done < batch*workers {
				return 0, errors.New("batch started early")
			}

			cur := running.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)

			mu.Lock()
			finished++
			mu.Unlock()
			return i, nil
		}
	}

	var events []core.RunEvent
	results, err := runAll(t, workers, workers, callables(fns...),
		core.ExecutorWithRunID("run-1"),
		core.ExecutorWithEventHandler(func(ev core.RunEvent) {
			events = append(events, ev)
		}),
	)
	r.NoError(err)
	r.Len(results, n)
	r.LessOrEqual(peak.Load(), int32(workers))

	var sizes []int
	for _, ev := range events {
		r.Equal("run-1", ev.RunID)
		if ev.State == core.RunStateBatchRunning {
			sizes = append(sizes, ev.Size)
		}
	}
	r.Equal([]int{5, 5, 5, 5, 3}, sizes)
	r.Equal(core.RunStateIdle, events[0].State)
	r.Equal(core.RunStateDone, events[len(events)-1].State)
}

func TestParallelExecutor_FailFast(t *testing.T) {
	r := require.New(t)

	errBoom := errors.New("boom")
	var laterBatchRan atomic.Bool

	fns := []func(context.Context) (string, error){
		func(ctx context.Context) (string, error) { return "a", nil },
		func(ctx context.Context) (string, error) { return "", errBoom },
		func(ctx context.Context) (string, error) {
			// siblings see the canceled context
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(5 * time.Second):
				return "c", nil
			}
		},
		func(ctx context.Context) (string, error) {
			laterBatchRan.Store(true)
			return "d", nil
		},
	}

	executor, err := core.NewParallelExecutor[string](3)
	r.NoError(err)
	batches, err := core.NewBatcher(callables(fns...), 3)
	r.NoError(err)

	start := time.Now()
	results, err := executor.Run(context.Background(), batches)
	r.Less(time.Since(start), 4*time.Second)

	r.Nil(results)
	r.ErrorIs(err, core.ErrBatchExecutionFailed)
	r.ErrorIs(err, errBoom)

	var batchErr *core.BatchError
	r.ErrorAs(err, &batchErr)
	r.Equal(0, batchErr.Batch)
	r.Equal(1, batchErr.Position)

	r.False(laterBatchRan.Load())
	r.Equal(core.RunStateFailed, executor.State())
}

func TestParallelExecutor_FailureInLaterBatch(t *testing.T) {
	r := require.New(t)

	fns := make([]func(context.Context) (int, error), 10)
	for i := range fns {
		fns[i] = func(ctx context.Context) (int, error) {
			if i == 7 {
				return 0, errors.New("late failure")
			}
			return i, nil
		}
	}

	results, err := runAll(t, 4, 4, callables(fns...))
	r.Nil(results, "no partial results")

	var batchErr *core.BatchError
	r.ErrorAs(err, &batchErr)
	r.Equal(1, batchErr.Batch)
	r.Equal(3, batchErr.Position)
}

func TestParallelExecutor_Panic(t *testing.T) {
	r := require.New(t)

	fns := []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) { panic("oops") },
	}

	_, err := runAll(t, 1, 1, callables(fns...))
	r.ErrorIs(err, core.ErrBatchExecutionFailed)
	r.ErrorContains(err, "oops")
}

func TestParallelExecutor_Canceled(t *testing.T) {
	r := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor, err := core.NewParallelExecutor[int](2)
	r.NoError(err)
	batches, err := core.NewBatcher(callables(func(ctx context.Context) (int, error) { return 1, nil }), 2)
	r.NoError(err)

	_, err = executor.Run(ctx, batches)
	r.ErrorIs(err, core.ErrBatchExecutionFailed)
	r.ErrorIs(err, context.Canceled)

	var batchErr *core.BatchError
	r.ErrorAs(err, &batchErr)
	r.Equal(-1, batchErr.Position)
}

func TestParallelExecutor_Empty(t *testing.T) {
	r := require.New(t)

	results, err := runAll(t, 2, 2, []core.Callable[int]{})
	r.NoError(err)
	r.NotNil(results)
	r.Empty(results)
}

func TestNewParallelExecutor_InvalidWorkers(t *testing.T) {
	_, err := core.NewParallelExecutor[int](0)
	require.ErrorIs(t, err, core.ErrInvalidWorkerCount)
}

func TestParallelExecutor_Workers(t *testing.T) {
	r := require.New(t)

	executor, err := core.NewParallelExecutor[int](7)
	r.NoError(err)
	r.Equal(7, executor.Workers())
	r.Equal(core.RunStateIdle, executor.State())
}

func TestRunState_RoundTrip(t *testing.T) {
	r := require.New(t)

	for _, s := range []core.RunState{core.RunStateIdle, core.RunStateBatchRunning, core.RunStateDone, core.RunStateFailed} {
		r.Equal(s, core.RunStateFromString(s.String()))
	}
	r.True(core.RunStateDone.IsFinal())
	r.True(core.RunStateFailed.IsFinal())
	r.False(core.RunStateBatchRunning.IsFinal())
}
