// Package events produces the clock-driven product event feed.
package events

import (
	"context"
	"time"

	"product-stream/internal/async"
	"product-stream/internal/metrics"
	"product-stream/internal/model"

	"github.com/rs/zerolog"
)

// Message is carried by every product event.
const Message = "Product Event"

// DefaultInterval is the cadence of the event feed.
const DefaultInterval = time.Second

// Source emits one ProductEvent per interval for each subscriber.
// Subscribers never share a counter or a timer.
type Source struct {
	interval time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewSource creates an event source. A non-positive interval falls back to DefaultInterval.
func NewSource(interval time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Source {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Source{
		interval: interval,
		metrics:  m,
		logger:   logger.With().Str("component", "event-source").Logger(),
	}
}

// Interval returns the configured cadence.
func (s *Source) Interval() time.Duration {
	return s.interval
}

// Events returns the cold event stream. Each subscription starts counting at 0
// and runs until its context is cancelled or the consumer stops accepting events.
func (s *Source) Events() async.Stream[model.ProductEvent] {
	ticks := async.MapStream(async.Interval(s.interval), func(n uint64) model.ProductEvent {
		return model.ProductEvent{EventID: n, Message: Message}
	})

	return func(ctx context.Context, emit func(model.ProductEvent) error) error {
		s.metrics.StreamOpened(ctx)
		defer s.metrics.StreamClosed(context.WithoutCancel(ctx))

		s.logger.Info().Dur("interval", s.interval).Msg("event stream subscribed")

		var delivered uint64
		err := ticks(ctx, func(ev model.ProductEvent) error {
			if err := emit(ev); err != nil {
				return err
			}
			delivered++
			s.metrics.EventEmitted(ctx)
			return nil
		})

		s.logger.Info().
			Uint64("delivered", delivered).
			AnErr("reason", err).
			Msg("event stream stopped")

		return err
	}
}
