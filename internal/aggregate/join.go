// Package aggregate runs independent reads concurrently and joins their
// results into one view.
//
//	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
//		"book":      func(ctx context.Context) (any, error) { return books.Get(ctx, id) },
//		"instances": func(ctx context.Context) (any, error) { return instances.ListByBook(ctx, id) },
//	})
//	if err != nil {
//		return err
//	}
//	book := aggregate.Get[*entities.Book](res, "book")
package aggregate

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is one independent read. Tasks in the same join must not depend on
// each other's results.
type Task func(ctx context.Context) (any, error)

// Tasks maps a label to its task.
type Tasks map[string]Task

// Results maps each label to its task's result.
type Results map[string]any

// JoinAll dispatches every task concurrently and waits for all of them.
// If any task fails, the context passed to the others is cancelled and the
// first failure is returned with no results.
func JoinAll(ctx context.Context, tasks Tasks) (Results, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(Results, len(tasks))

	for label, task := range tasks {
		g.Go(func() error {
			v, err := task(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			mu.Lock()
			results[label] = v
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Get returns the result stored under label as T. It returns the zero value
// when the label is missing or holds another type.
func Get[T any](r Results, label string) T {
	v, _ := r[label].(T)
	return v
}
