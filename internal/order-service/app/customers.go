package app

import (
	"context"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

// CustomerService is the read side of the customer records stored with
// each order.
type CustomerService struct {
	customers ports.CustomerRepository
	orders    ports.OrderRepository
}

func NewCustomerService(customers ports.CustomerRepository, orders ports.OrderRepository) *CustomerService {
	return &CustomerService{customers: customers, orders: orders}
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

// ListCustomerOrders returns the orders placed by a customer. An unknown
// customer is domain.ErrCustomerNotFound rather than an empty list.
func (s *CustomerService) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	if _, err := s.customers.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.orders.ListOrders(ctx, ports.OrderFilter{CustomerID: customerID})
}
