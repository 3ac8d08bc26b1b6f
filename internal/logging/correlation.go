package logging

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for correlation ID management.
type contextKey string

const (
	CorrelationIDKey contextKey = "correlation_id"
)

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// NewCorrelationContext returns a context with a freshly generated correlation ID.
// One is attached per invocation so every entry of a run shares it.
func NewCorrelationContext(ctx context.Context) context.Context {
	return WithCorrelationID(ctx, uuid.New().String())
}

// CorrelationID returns the correlation ID stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return id
	}
	return ""
}

func getOrGenerateCorrelationID(ctx context.Context) string {
	if id := CorrelationID(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}
