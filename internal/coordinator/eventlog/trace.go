package eventlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// the context carries no valid span, e.g. in unit tests.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry stamped with the trace of ctx and the current time.
//
//	entry := eventlog.NewEntry(ctx, orderID, eventlog.KindCallback, "confirm", eventlog.StatusApplied, "")
//	_ = repo.Save(ctx, entry)
func NewEntry(ctx context.Context, orderID string, kind Kind, name string, status Status, detail string) *Entry {
	ti := ExtractTraceInfo(ctx)
	return &Entry{
		OrderID:   orderID,
		Kind:      kind,
		Name:      name,
		Status:    status,
		Detail:    detail,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		CreatedAt: time.Now().UTC(),
	}
}
