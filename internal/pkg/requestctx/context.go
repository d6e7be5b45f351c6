// Package requestctx carries per-request metadata through context.Context so
// handlers, services and the logger agree on the request id.
package requestctx

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	HeaderXRequestID = "X-Request-Id"

	requestIDKey contextKey = "request_id"
)

// WithRequestID stores the request id on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// TraceID returns the id of the active OpenTelemetry trace, or "".
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
