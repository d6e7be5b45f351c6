package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

// Outcome is the result of applying a customer action to an order.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeIgnored  Outcome = "ignored: duplicate or stale"
	OutcomeNotFound Outcome = "not_found"
)

// Lifecycle is the single writer of order status after creation.
type Lifecycle struct {
	orders ports.OrderRepository
	now    func() time.Time
}

func NewLifecycle(orders ports.OrderRepository, now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{orders: orders, now: now}
}

// Apply moves a pending order to the status the action targets. Orders that
// already left pending are left untouched and reported as OutcomeIgnored, so
// replays and conflicting late replies are harmless. Of two concurrent
// actions on the same order exactly one is applied.
func (l *Lifecycle) Apply(ctx context.Context, orderID string, action domain.Action) (Outcome, error) {
	to, ok := action.Target()
	if !ok || !domain.CanTransition(domain.StatusPending, to) {
		return "", fmt.Errorf("%w: unknown action %q", domain.ErrMalformedToken, action)
	}

	var confirmedAt *time.Time
	if to == domain.StatusConfirmed {
		at := l.now().UTC()
		confirmedAt = &at
	}

	applied, err := l.orders.TransitionStatus(ctx, orderID, domain.StatusPending, to, confirmedAt)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return OutcomeNotFound, nil
	case err != nil:
		return "", fmt.Errorf("apply %s to order %q: %w", action, orderID, err)
	case applied:
		return OutcomeApplied, nil
	default:
		return OutcomeIgnored, nil
	}
}
