// Package metrics records service metrics through OpenTelemetry.
package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments used by the HTTP layer and the event stream.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requestsTotal   metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeStreams   metric.Int64UpDownCounter
	eventsEmitted   metric.Int64Counter
}

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*Metrics, error) {
	requestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests served"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeStreams, err := meter.Int64UpDownCounter(
		"product_event_streams_active",
		metric.WithDescription("Number of open product event streams"),
	)
	if err != nil {
		return nil, err
	}

	eventsEmitted, err := meter.Int64Counter(
		"product_events_emitted_total",
		metric.WithDescription("Total number of product events delivered to subscribers"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		activeStreams:   activeStreams,
		eventsEmitted:   eventsEmitted,
	}, nil
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.requestsTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// StreamOpened marks a new event stream subscription.
func (m *Metrics) StreamOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.activeStreams.Add(ctx, 1)
}

// StreamClosed marks the end of an event stream subscription.
func (m *Metrics) StreamClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.activeStreams.Add(ctx, -1)
}

// EventEmitted counts one delivered product event.
func (m *Metrics) EventEmitted(ctx context.Context) {
	if m == nil {
		return
	}
	m.eventsEmitted.Add(ctx, 1)
}
