// Package memory keeps orders and brands in process memory. It backs local
// development and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/ports"
)

var (
	_ ports.OrderRepository    = (*Repository)(nil)
	_ ports.BrandRepository    = (*Repository)(nil)
	_ ports.CustomerRepository = (*Repository)(nil)
)

type Repository struct {
	mu         sync.RWMutex
	orders     map[string]*domain.Order
	order      []string
	externalID map[string]string
	brands     map[string]*domain.Brand
	brandOrder []string
}

func NewRepository() *Repository {
	return &Repository{
		orders:     make(map[string]*domain.Order),
		externalID: make(map[string]string),
		brands:     make(map[string]*domain.Brand),
	}
}

func (r *Repository) CreateOrder(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ExternalID != "" {
		if _, taken := r.externalID[o.ExternalID]; taken {
			return domain.ErrDuplicateExternalID
		}
		r.externalID[o.ExternalID] = o.ID
	}
	r.orders[o.ID] = cloneOrder(o)
	r.order = append(r.order, o.ID)
	return nil
}

func (r *Repository) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *Repository) ListOrders(_ context.Context, filter ports.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Order, 0, len(r.order))
	for _, id := range r.order {
		o := r.orders[id]
		if filter.BrandID != "" && o.BrandID != filter.BrandID {
			continue
		}
		if filter.CustomerID != "" && o.Customer.ID != filter.CustomerID {
			continue
		}
		out = append(out, *cloneOrder(o))
	}
	return out, nil
}

func (r *Repository) ExternalIDExists(_ context.Context, externalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.externalID[externalID]
	return ok, nil
}

func (r *Repository) TransitionStatus(_ context.Context, id string, from, to domain.OrderStatus, confirmedAt *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	if confirmedAt != nil {
		at := *confirmedAt
		o.ConfirmedAt = &at
	}
	return true, nil
}

func (r *Repository) CreateBrand(_ context.Context, b *domain.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *b
	r.brands[b.ID] = &cp
	r.brandOrder = append(r.brandOrder, b.ID)
	return nil
}

func (r *Repository) GetBrand(_ context.Context, id string) (*domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.brands[id]
	if !ok {
		return nil, domain.ErrBrandNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *Repository) ListBrands(_ context.Context) ([]domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Brand, 0, len(r.brandOrder))
	for _, id := range r.brandOrder {
		out = append(out, *r.brands[id])
	}
	return out, nil
}

func (r *Repository) FindBrandByDomain(_ context.Context, fragment string) (*domain.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(fragment)
	for _, id := range r.brandOrder {
		b := r.brands[id]
		if needle != "" && strings.Contains(strings.ToLower(b.Website), needle) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBrandNotFound
}

// GetCustomer searches the orders, since each order owns its customer record.
func (r *Repository) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, oid := range r.order {
		if c := r.orders[oid].Customer; c.ID == id && id != "" {
			return &c, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

func (r *Repository) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Customer, 0, len(r.order))
	for _, oid := range r.order {
		out = append(out, r.orders[oid].Customer)
	}
	return out, nil
}

func cloneOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = slices.Clone(o.Items)
	if cp.Items == nil {
		cp.Items = []domain.LineItem{}
	}
	if o.ConfirmedAt != nil {
		at := *o.ConfirmedAt
		cp.ConfirmedAt = &at
	}
	return &cp
}
