package async

import (
	"context"
	"errors"
	"time"
)

// Stream is a deferred sequence of values.
//
// Subscribing calls emit for every value in order. A Stream must stop and
// release its resources as soon as ctx is done or emit returns an error, and
// must return that error unchanged.
type Stream[T any] func(ctx context.Context, emit func(T) error) error

// Subscribe runs the stream until it ends, fails, or is cancelled.
func (s Stream[T]) Subscribe(ctx context.Context, emit func(T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s(ctx, emit)
}

// Collect gathers every value of a finite stream.
// The result is never nil, so an empty stream encodes as [].
func (s Stream[T]) Collect(ctx context.Context) ([]T, error) {
	items := []T{}
	err := s.Subscribe(ctx, func(v T) error {
		items = append(items, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FromSlice emits the items in order.
func FromSlice[T any](items []T) Stream[T] {
	return func(ctx context.Context, emit func(T) error) error {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit(item); err != nil {
				return err
			}
		}
		return nil
	}
}

// MapStream transforms every value of s.
func MapStream[T, R any](s Stream[T], fn func(T) R) Stream[R] {
	return func(ctx context.Context, emit func(R) error) error {
		return s(ctx, func(v T) error {
			return emit(fn(v))
		})
	}
}

type stopSignal struct {
	limit int
}

func (s *stopSignal) Error() string {
	return "async: take limit reached"
}

// Take emits at most n values and then cancels the upstream.
func Take[T any](s Stream[T], n int) Stream[T] {
	return func(ctx context.Context, emit func(T) error) error {
		if n <= 0 {
			return nil
		}
		stop := &stopSignal{limit: n}
		count := 0
		err := s(ctx, func(v T) error {
			if err := emit(v); err != nil {
				return err
			}
			count++
			if count >= n {
				return stop
			}
			return nil
		})
		var sig *stopSignal
		if errors.As(err, &sig) && sig == stop {
			return nil
		}
		return err
	}
}

// Interval emits 0, 1, 2, ... once per interval, the first value one interval
// after subscription. It never completes on its own; a cancelled context ends
// it with a nil error. Each subscription owns its ticker and counter.
func Interval(interval time.Duration) Stream[uint64] {
	return func(ctx context.Context, emit func(uint64) error) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var tick uint64
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			// A tick and cancellation can be ready together.
			if ctx.Err() != nil {
				return nil
			}
			if err := emit(tick); err != nil {
				return err
			}
			tick++
		}
	}
}
