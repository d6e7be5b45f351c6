package payload

import (
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

// adaptWooCommerce maps a billing-object payload. Each field prefers the
// shipping object and falls back to billing; the email only exists on billing.
func adaptWooCommerce(o object, _ Detection) domain.Draft {
	addrs := []object{o.obj("shipping"), o.obj("billing")}

	return domain.Draft{
		ExternalID: o.identifier("id"),
		Customer: domain.Customer{
			FirstName:  firstStr(addrs, "first_name"),
			LastName:   firstStr(addrs, "last_name"),
			Email:      o.obj("billing").str("email"),
			Phone:      firstStr(addrs, "phone"),
			Address:    firstStr(addrs, "address_1"),
			Apartment:  firstStr(addrs, "address_2"),
			City:       firstStr(addrs, "city"),
			State:      firstStr(addrs, "state"),
			Country:    firstStr(addrs, "country"),
			PostalCode: firstStr(addrs, "postcode"),
		},
		Items:        lineItems(o.list("line_items")),
		ShippingCost: shippingCost(o),
		TotalCost:    amount(o, "total"),
	}
}
