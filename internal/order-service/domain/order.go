package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is the canonical order produced by a payload adapter before it is
// persisted. It is built and discarded within a single ingestion call.
type Draft struct {
	// ExternalID is the identifier assigned by the source platform. Empty
	// means the source did not provide one.
	ExternalID   string
	Customer     Customer
	Items        []LineItem
	ShippingCost decimal.Decimal
	TotalCost    decimal.Decimal
}

type Customer struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	Apartment  string
	City       string
	State      string
	Country    string
	PostalCode string
}

type LineItem struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a persisted draft owned by a brand. Status and ConfirmedAt are
// only ever changed through the lifecycle state machine.
type Order struct {
	ID           string
	ExternalID   string
	BrandID      string
	Customer     Customer
	Items        []LineItem
	ShippingCost decimal.Decimal
	TotalCost    decimal.Decimal
	Status       OrderStatus
	CreatedAt    time.Time
	ConfirmedAt  *time.Time
}

// NewOrder stamps a draft with identity and the initial pending status.
func NewOrder(id, brandID string, d Draft, now time.Time) *Order {
	items := d.Items
	if items == nil {
		items = []LineItem{}
	}
	return &Order{
		ID:           id,
		ExternalID:   d.ExternalID,
		BrandID:      brandID,
		Customer:     d.Customer,
		Items:        items,
		ShippingCost: d.ShippingCost,
		TotalCost:    d.TotalCost,
		Status:       StatusPending,
		CreatedAt:    now,
	}
}

// Brand is the merchant account (tenant) an order belongs to.
type Brand struct {
	ID           string
	Name         string
	Website      string
	ContactEmail string
	PhoneNumber  string
	CreatedAt    time.Time
}
