package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallel_Empty(t *testing.T) {
	t.Parallel()

	require.NoError(t, RunParallel(context.Background(), nil))
}

func TestRunParallel_AllSucceed(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { ran.Add(1); return nil }},
		{Name: "c", Func: func(context.Context) error { ran.Add(1); return nil }},
	}

	require.NoError(t, RunParallel(context.Background(), tasks))
	assert.Equal(t, int32(3), ran.Load())
}

func TestRunParallel_CollectsAllFailures(t *testing.T) {
	t.Parallel()

	errA := errors.New("a failed")
	errC := errors.New("c failed")
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { return errA }},
		{Name: "b", Func: func(context.Context) error { return nil }},
		{Name: "c", Func: func(context.Context) error { return errC }},
	}

	err := RunParallel(context.Background(), tasks)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Contains(t, err.Error(), "a: ")
	assert.Contains(t, err.Error(), "c: ")
}

func TestRunParallel_FailureDoesNotCancelSiblings(t *testing.T) {
	t.Parallel()

	var sibling atomic.Bool
	tasks := []Task{
		{Name: "fast-fail", Func: func(context.Context) error { return errors.New("boom") }},
		{Name: "slow", Func: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(50 * time.Millisecond):
				sibling.Store(true)
				return nil
			}
		}},
	}

	err := RunParallel(context.Background(), tasks)
	require.Error(t, err)
	assert.True(t, sibling.Load(), "sibling task should run to completion")
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestRunParallel_TasksRunConcurrently(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	tasks := []Task{
		{Name: "one", Func: func(context.Context) error { gate <- struct{}{}; return nil }},
		{Name: "two", Func: func(context.Context) error { <-gate; return nil }},
	}

	done := make(chan error, 1)
	go func() { done <- RunParallel(context.Background(), tasks) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tasks deadlocked, not running concurrently")
	}
}
