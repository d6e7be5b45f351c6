package payload

import (
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

var nativeNameKeys = []string{"product_name", "name", "title"}

// adaptNative passes canonical keys through, normalizing only amounts and
// quantities.
func adaptNative(o object, _ Detection) domain.Draft {
	raw := o.list("items")
	items := make([]domain.LineItem, 0, len(raw))
	for _, r := range raw {
		li := asObject(r)
		qty := rawQuantity(li)
		name := li.str(nativeNameKeys...)
		if name == "" {
			name = PlaceholderProductName
		}
		items = append(items, domain.LineItem{
			ProductName: name,
			Quantity:    quantity(qty),
			UnitPrice:   unitPrice(li, qty),
		})
	}

	return domain.Draft{
		ExternalID:   o.identifier("external_id"),
		Customer:     nativeCustomer(o.obj("customer")),
		Items:        items,
		ShippingCost: amount(o, "shipping_cost"),
		TotalCost:    amount(o, "total_cost"),
	}
}

func nativeCustomer(c object) domain.Customer {
	return domain.Customer{
		FirstName:  c.str("first_name"),
		LastName:   c.str("last_name"),
		Email:      c.str("email"),
		Phone:      c.str("phone"),
		Address:    c.str("address"),
		Apartment:  c.str("apartment"),
		City:       c.str("city"),
		State:      c.str("state"),
		Country:    c.str("country"),
		PostalCode: c.str("postal_code"),
	}
}
