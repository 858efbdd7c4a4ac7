// Package async runs independent named operations concurrently.
//
// The orchestrators use it to drive waits on unrelated lifecycle operations
// in parallel: each task owns its own poll loop and shares nothing with its
// siblings beyond the read-only session.
package async

import (
	"context"
	"errors"
	"fmt"
)

// Task is one named operation.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts all tasks concurrently and waits for every one of them
// to finish. Failures are collected and joined; a failing task never cancels
// its siblings, since a client-side abort would not stop the corresponding
// remote operation anyway.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var errs []error
	for range len(tasks) {
		res := <-results
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.name, res.err))
		}
	}
	return errors.Join(errs...)
}
