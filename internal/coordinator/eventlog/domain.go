// Package eventlog defines the confirmation event log.
//
// Every confirmation request sent to a customer and every callback received
// for an order is appended here. The log answers "what happened to this
// order's confirmation" and links each row to its distributed trace through
// the trace_id column.
package eventlog

import "time"

// Kind groups entries by where they came from.
type Kind string

const (
	KindDispatch Kind = "DISPATCH"
	KindCallback Kind = "CALLBACK"
)

// Status is the outcome recorded for an entry.
type Status string

const (
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusApplied   Status = "APPLIED"
	StatusIgnored   Status = "IGNORED"
)

// Entry is a single row in the confirmation_events table.
type Entry struct {
	OrderID string
	Kind    Kind

	// Name is the step for dispatch entries and the action for callbacks.
	Name   string
	Status Status

	// Detail carries the error or the reason an event was ignored.
	Detail string

	TraceID string
	SpanID  string

	CreatedAt time.Time
}
