// Package ports declares the collaborators the order service depends on.
// Adapters under internal/order-service/adapters and internal/notification
// implement them.
package ports

import (
	"context"
	"time"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

// OrderRepository persists orders. TransitionStatus is the only way to change
// an order's status after creation.
type OrderRepository interface {
	// CreateOrder stores a new order with its customer and items. It returns
	// domain.ErrDuplicateExternalID when another order owns the external id.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	ExternalIDExists(ctx context.Context, externalID string) (bool, error)
	// TransitionStatus moves the order from one status to another only if it
	// is still in from. The boolean reports whether the update took effect.
	TransitionStatus(ctx context.Context, id string, from, to domain.OrderStatus, confirmedAt *time.Time) (bool, error)
}

// OrderFilter narrows ListOrders. Empty fields match everything.
type OrderFilter struct {
	BrandID    string
	CustomerID string
}

// CustomerRepository reads the customer records written with each order.
type CustomerRepository interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	// ListCustomers returns customers in the order their orders were created.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// BrandRepository stores tenants and answers the lookups used to resolve the
// owner of an incoming order.
type BrandRepository interface {
	CreateBrand(ctx context.Context, brand *domain.Brand) error
	GetBrand(ctx context.Context, id string) (*domain.Brand, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	// FindBrandByDomain returns the first brand whose website contains the
	// fragment, case-insensitively, or domain.ErrBrandNotFound.
	FindBrandByDomain(ctx context.Context, fragment string) (*domain.Brand, error)
}

// ConfirmationRequest is what the outbound channel needs to ask a customer to
// confirm or cancel an order.
type ConfirmationRequest struct {
	OrderID      string
	Phone        string // digits only
	BrandName    string
	ConfirmToken string
	CancelToken  string
}

// Notifier sends confirmation requests over the messaging channel.
type Notifier interface {
	SendConfirmationRequest(ctx context.Context, req ConfirmationRequest) error
}

// Deduper remembers provider message ids so redelivered callbacks are
// processed once.
type Deduper interface {
	// FirstSeen records key and reports whether it was new within ttl.
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Forget drops key so a later delivery is processed again.
	Forget(ctx context.Context, key string) error
}

// CallbackEvent is one customer reply delivered by the messaging provider.
type CallbackEvent struct {
	// MessageID is the provider's id for the reply, used for dedupe.
	MessageID string
	From      string
	// Token is the opaque payload of the pressed button, e.g. "confirm:<order id>".
	Token     string
	Timestamp time.Time
}
