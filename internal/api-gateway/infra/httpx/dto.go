package httpx

import (
	"time"

	"github.com/Basilalghandour/Bot-Project/internal/coordinator/eventlog"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/money"
)

type CustomerResponse struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	Apartment  string  `json:"apartment"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Country    string  `json:"country"`
	PostalCode *string `json:"postal_code"`
}

type OrderItemResponse struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	ExternalID   *string             `json:"external_id"`
	BrandID      *string             `json:"brand_id"`
	Customer     CustomerResponse    `json:"customer"`
	Items        []OrderItemResponse `json:"items"`
	ShippingCost string              `json:"shipping_cost"`
	TotalCost    string              `json:"total_cost"`
	Status       string              `json:"status"`
	CreatedAt    string              `json:"created_at"`
	ConfirmedAt  *string             `json:"confirmed_at"`
	Warnings     []string            `json:"warnings,omitempty"`
}

type CreateBrandRequest struct {
	Name         string `json:"name"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
	PhoneNumber  string `json:"phone_number"`
}

type BrandResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Website      string `json:"website"`
	ContactEmail string `json:"contact_email"`
	PhoneNumber  string `json:"phone_number"`
	CreatedAt    string `json:"created_at"`
}

type EventResponse struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func mapOrderToResponse(o *domain.Order, warnings []string) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		ExternalID:   optional(o.ExternalID),
		BrandID:      optional(o.BrandID),
		Customer:     mapCustomer(o.Customer),
		Items:        mapItems(o.Items),
		ShippingCost: money.Format(o.ShippingCost),
		TotalCost:    money.Format(o.TotalCost),
		Status:       string(o.Status),
		CreatedAt:    formatTime(o.CreatedAt),
		ConfirmedAt:  optionalTime(o.ConfirmedAt),
		Warnings:     warnings,
	}
}

func mapOrders(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = mapOrderToResponse(&orders[i], nil)
	}
	return out
}

func mapCustomer(c domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		Apartment:  c.Apartment,
		City:       c.City,
		State:      c.State,
		Country:    c.Country,
		PostalCode: optional(c.PostalCode),
	}
}

func mapCustomers(customers []domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = mapCustomer(c)
	}
	return out
}

func mapItems(items []domain.LineItem) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, it := range items {
		out[i] = OrderItemResponse{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       money.Format(it.UnitPrice),
		}
	}
	return out
}

func mapBrand(b *domain.Brand) BrandResponse {
	return BrandResponse{
		ID:           b.ID,
		Name:         b.Name,
		Website:      b.Website,
		ContactEmail: b.ContactEmail,
		PhoneNumber:  b.PhoneNumber,
		CreatedAt:    formatTime(b.CreatedAt),
	}
}

func mapEvents(entries []eventlog.Entry) []EventResponse {
	out := make([]EventResponse, len(entries))
	for i, e := range entries {
		out[i] = EventResponse{
			Kind:      string(e.Kind),
			Name:      e.Name,
			Status:    string(e.Status),
			Detail:    e.Detail,
			TraceID:   e.TraceID,
			CreatedAt: formatTime(e.CreatedAt),
		}
	}
	return out
}

// optional renders absent strings as JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
