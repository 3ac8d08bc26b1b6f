package client

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	RequestCounterName           = "worldbook.client.requests"
	RequestDurationHistogramName = "worldbook.client.request.duration"

	meterName = "worldbook/internal/client"
)

// Attribute keys.
const (
	AttrEndpoint = "endpoint"
	AttrOutcome  = "outcome"
)

// RequestMetrics records one counter increment and one duration per request.
// A nil *RequestMetrics records nothing.
type RequestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRequestMetrics creates the client instruments on the given provider.
func NewRequestMetrics(provider metric.MeterProvider) (*RequestMetrics, error) {
	meter := provider.Meter(meterName)

	requests, err := meter.Int64Counter(RequestCounterName,
		metric.WithDescription("Total number of Worldbook API requests"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(RequestDurationHistogramName,
		metric.WithDescription("Worldbook API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RequestMetrics{requests: requests, duration: duration}, nil
}

// Record records a finished request.
func (m *RequestMetrics) Record(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(AttrEndpoint, endpoint),
		attribute.String(AttrOutcome, outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
