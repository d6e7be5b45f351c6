package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

// DefaultDedupeTTL is how long a provider message id is remembered.
const DefaultDedupeTTL = 24 * time.Hour

// CallbackReport counts what happened to a batch of callback events.
type CallbackReport struct {
	Applied   int
	Ignored   int
	NotFound  int
	Malformed int
	Duplicate int
	Failed    int
}

// CallbackService turns customer replies into lifecycle transitions.
type CallbackService struct {
	lifecycle *Lifecycle
	dedupe    ports.Deduper
	dedupeTTL time.Duration
	events    eventlog.Repository
	logger    *slog.Logger
}

// NewCallbackService wires the handler. dedupe may be nil, in which case
// redelivered replies are still absorbed by the state machine.
func NewCallbackService(lifecycle *Lifecycle, dedupe ports.Deduper, dedupeTTL time.Duration, events eventlog.Repository, logger *slog.Logger) *CallbackService {
	if dedupeTTL <= 0 {
		dedupeTTL = DefaultDedupeTTL
	}
	return &CallbackService{
		lifecycle: lifecycle,
		dedupe:    dedupe,
		dedupeTTL: dedupeTTL,
		events:    events,
		logger:    logger,
	}
}

// HandleEvents processes every event independently. Problems with one event
// are logged and counted, never returned, so the provider always gets an
// acknowledgement.
func (s *CallbackService) HandleEvents(ctx context.Context, events []ports.CallbackEvent) CallbackReport {
	ctx, span := tracer.Start(ctx, "callback.handle")
	defer span.End()
	span.SetAttributes(attribute.Int("callback.events", len(events)))

	var report CallbackReport
	for _, ev := range events {
		s.handle(ctx, ev, &report)
	}
	return report
}

func (s *CallbackService) handle(ctx context.Context, ev ports.CallbackEvent, report *CallbackReport) {
	claimed := false
	if s.dedupe != nil && ev.MessageID != "" {
		first, err := s.dedupe.FirstSeen(ctx, ev.MessageID, s.dedupeTTL)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "dedupe store unavailable, relying on order state", "message_id", ev.MessageID, "error", err)
		case !first:
			report.Duplicate++
			s.logger.InfoContext(ctx, "duplicate callback delivery", "message_id", ev.MessageID)
			return
		default:
			claimed = true
		}
	}

	action, orderID, err := domain.ParseToken(ev.Token)
	if err != nil {
		report.Malformed++
		s.logger.WarnContext(ctx, "ignoring callback with malformed token", "message_id", ev.MessageID, "error", err)
		return
	}

	outcome, err := s.lifecycle.Apply(ctx, orderID, action)
	if err != nil {
		report.Failed++
		s.logger.ErrorContext(ctx, "failed to apply callback", "order_id", orderID, "action", action, "error", err)
		// Release the message id so the provider's retry is not dropped as
		// a duplicate.
		if claimed {
			if ferr := s.dedupe.Forget(ctx, ev.MessageID); ferr != nil {
				s.logger.WarnContext(ctx, "failed to release callback message id", "message_id", ev.MessageID, "error", ferr)
			}
		}
		return
	}

	var status eventlog.Status
	switch outcome {
	case OutcomeNotFound:
		report.NotFound++
		s.logger.ErrorContext(ctx, "callback for unknown order", "order_id", orderID, "action", action, "message_id", ev.MessageID)
		return
	case OutcomeApplied:
		report.Applied++
		status = eventlog.StatusApplied
		s.logger.InfoContext(ctx, "order status updated", "order_id", orderID, "action", action)
	default:
		report.Ignored++
		status = eventlog.StatusIgnored
		s.logger.InfoContext(ctx, "callback ignored, order already decided", "order_id", orderID, "action", action)
	}

	detail := ""
	if status == eventlog.StatusIgnored {
		detail = string(outcome)
	}
	entry := eventlog.NewEntry(ctx, orderID, eventlog.KindCallback, string(action), status, detail)
	if err := s.events.Save(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to record callback outcome", "order_id", orderID, "error", err)
	}
}
