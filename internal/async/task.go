// Package async provides cold, context-driven computations.
//
// A Task yields at most one value and a Stream yields any number of values.
// Both are plain functions: building one performs no work, and every call to
// Await or Subscribe runs the computation from the start. Cancellation flows
// through the context handed to Await or Subscribe.
package async

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Task is a deferred computation producing zero or one value.
// The boolean result is false when the task completed empty.
type Task[T any] func(ctx context.Context) (T, bool, error)

// Await runs the task and waits for its outcome.
func (t Task[T]) Await(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	return t(ctx)
}

// Just returns a task that completes with v.
func Just[T any](v T) Task[T] {
	return func(context.Context) (T, bool, error) {
		return v, true, nil
	}
}

// Empty returns a task that completes without a value.
func Empty[T any]() Task[T] {
	return func(context.Context) (T, bool, error) {
		var zero T
		return zero, false, nil
	}
}

// Fail returns a task that completes with err.
func Fail[T any](err error) Task[T] {
	return func(context.Context) (T, bool, error) {
		var zero T
		return zero, false, err
	}
}

// FromOptional adapts a call returning a pointer, where nil means empty.
func FromOptional[T any](fn func(ctx context.Context) (*T, error)) Task[T] {
	return func(ctx context.Context) (T, bool, error) {
		var zero T
		v, err := fn(ctx)
		if err != nil {
			return zero, false, err
		}
		if v == nil {
			return zero, false, nil
		}
		return *v, true, nil
	}
}

// Map transforms the value of t, if any.
func Map[T, R any](t Task[T], fn func(T) R) Task[R] {
	return func(ctx context.Context) (R, bool, error) {
		var zero R
		v, ok, err := t.Await(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		return fn(v), true, nil
	}
}

// FlatMap runs the task returned by fn once t produced a value.
// An empty t short-circuits and fn is never called.
func FlatMap[T, R any](t Task[T], fn func(T) Task[R]) Task[R] {
	return func(ctx context.Context) (R, bool, error) {
		var zero R
		v, ok, err := t.Await(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		return fn(v).Await(ctx)
	}
}

// errEmpty cancels the sibling of a Zip branch that completed empty.
var errEmpty = errors.New("async: empty")

// Zip runs a and b concurrently and combines both values.
// If either side is empty the result is empty; the first failure wins and
// cancels the other side.
func Zip[A, B, R any](a Task[A], b Task[B], combine func(A, B) R) Task[R] {
	return func(ctx context.Context) (R, bool, error) {
		var zero R
		var (
			va A
			vb B
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			v, ok, err := a.Await(gctx)
			if err != nil {
				return err
			}
			if !ok {
				return errEmpty
			}
			va = v
			return nil
		})
		g.Go(func() error {
			v, ok, err := b.Await(gctx)
			if err != nil {
				return err
			}
			if !ok {
				return errEmpty
			}
			vb = v
			return nil
		})

		if err := g.Wait(); err != nil {
			if errors.Is(err, errEmpty) {
				return zero, false, nil
			}
			return zero, false, err
		}
		return combine(va, vb), true, nil
	}
}
