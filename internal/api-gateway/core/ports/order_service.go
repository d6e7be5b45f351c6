// Package ports declares what the HTTP gateway needs from the order service.
package ports

import (
	"context"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/app"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	orderports "github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

type OrderService interface {
	Ingest(ctx context.Context, req app.IngestRequest) (*app.IngestResult, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, brandID string) ([]domain.Order, error)
	Events(ctx context.Context, orderID string) ([]eventlog.Entry, error)
}

type BrandService interface {
	CreateBrand(ctx context.Context, in app.BrandInput) (*domain.Brand, error)
	GetBrand(ctx context.Context, id string) (*domain.Brand, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
}

type CustomerService interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error)
}

type CallbackService interface {
	HandleEvents(ctx context.Context, events []orderports.CallbackEvent) app.CallbackReport
}

// HealthChecker reports whether backing stores are reachable.
type HealthChecker func(ctx context.Context) error
