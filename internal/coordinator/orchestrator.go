// Package coordinator runs the work that follows a successful order creation.
//
// Unlike a saga, nothing here is compensated: the order is already persisted
// and stays pending whatever happens. Each step runs once, its outcome is
// appended to the event log, and failures come back to the caller as
// warnings.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
)

var tracer = otel.Tracer("coordinator")

// Step is a single post-creation action.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// Orchestrator executes steps for an order.
type Orchestrator struct {
	events  eventlog.Repository
	logger  *slog.Logger
	timeout time.Duration
}

// NewOrchestrator builds an orchestrator. A non-positive timeout leaves steps
// bounded only by the caller's context.
func NewOrchestrator(events eventlog.Repository, logger *slog.Logger, timeout time.Duration) *Orchestrator {
	return &Orchestrator{events: events, logger: logger, timeout: timeout}
}

// Run executes every step in order and returns one warning per failed step.
// A failing step does not stop the ones after it.
func (o *Orchestrator) Run(ctx context.Context, orderID string, steps []Step) []string {
	var warnings []string

	for _, step := range steps {
		if err := o.runStep(ctx, orderID, step); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s failed: %v", step.Name(), err))
		}
	}
	return warnings
}

func (o *Orchestrator) runStep(ctx context.Context, orderID string, step Step) error {
	ctx, span := tracer.Start(ctx, "coordinator."+step.Name())
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	stepCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	o.logger.InfoContext(ctx, "executing step", "step", step.Name(), "order_id", orderID)
	err := step.Execute(stepCtx)

	status, detail := eventlog.StatusSucceeded, ""
	if err != nil {
		status, detail = eventlog.StatusFailed, err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logger.WarnContext(ctx, "step failed", "step", step.Name(), "order_id", orderID, "error", err)
	}

	entry := eventlog.NewEntry(ctx, orderID, eventlog.KindDispatch, step.Name(), status, detail)
	if saveErr := o.events.Save(ctx, entry); saveErr != nil {
		o.logger.ErrorContext(ctx, "failed to record step outcome", "step", step.Name(), "order_id", orderID, "error", saveErr)
	}
	return err
}
