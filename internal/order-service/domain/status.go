package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

// orderStateTransitions lists every allowed move. Confirmed and cancelled are
// terminal and have no entry.
var orderStateTransitions = map[OrderStatus][]OrderStatus{
	StatusPending: {StatusConfirmed, StatusCancelled},
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderStateTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return len(orderStateTransitions[s]) == 0
}

// Action is what a customer asked for when replying to a confirmation request.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Target returns the status an action moves a pending order to.
func (a Action) Target() (OrderStatus, bool) {
	switch a {
	case ActionConfirm:
		return StatusConfirmed, true
	case ActionCancel:
		return StatusCancelled, true
	default:
		return "", false
	}
}

// Token is the opaque correlation value attached to a confirmation request
// button, e.g. "confirm:3f0c...".
func (a Action) Token(orderID string) string {
	return string(a) + ":" + orderID
}

// ParseToken splits an action token into its action and order reference.
func ParseToken(token string) (Action, string, error) {
	action, ref, ok := strings.Cut(strings.TrimSpace(token), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no separator", ErrMalformedToken, token)
	}
	a := Action(strings.ToLower(strings.TrimSpace(action)))
	if _, known := a.Target(); !known {
		return "", "", fmt.Errorf("%w: unknown action %q", ErrMalformedToken, action)
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("%w: empty order reference", ErrMalformedToken)
	}
	return a, ref, nil
}
