package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

var ErrNoPhone = errors.New("customer has no phone number")

// --- ConfirmationRequestStep ---

// ConfirmationRequestStep asks the customer to confirm or cancel the order
// over the messaging channel.
type ConfirmationRequestStep struct {
	notifier  ports.Notifier
	order     *domain.Order
	brandName string
}

func NewConfirmationRequestStep(notifier ports.Notifier, order *domain.Order, brandName string) *ConfirmationRequestStep {
	return &ConfirmationRequestStep{
		notifier:  notifier,
		order:     order,
		brandName: brandName,
	}
}

func (s *ConfirmationRequestStep) Name() string { return "confirmation_request" }

func (s *ConfirmationRequestStep) Execute(ctx context.Context) error {
	phone := DigitsOnly(s.order.Customer.Phone)
	if phone == "" {
		return ErrNoPhone
	}

	err := s.notifier.SendConfirmationRequest(ctx, ports.ConfirmationRequest{
		OrderID:      s.order.ID,
		Phone:        phone,
		BrandName:    s.brandName,
		ConfirmToken: domain.ActionConfirm.Token(s.order.ID),
		CancelToken:  domain.ActionCancel.Token(s.order.ID),
	})
	if err != nil {
		return fmt.Errorf("send confirmation request: %w", err)
	}
	return nil
}

// DigitsOnly strips everything but ASCII digits, the form the messaging
// provider expects for recipient numbers.
func DigitsOnly(phone string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
