package payload

import (
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
)

// adaptShopify maps a customer-object payload. Address fields come from
// shipping_address, else billing_address; the email from the customer object.
func adaptShopify(o object, _ Detection) domain.Draft {
	customer := o.obj("customer")
	addrs := []object{o.obj("shipping_address"), o.obj("billing_address")}

	email := customer.str("email")
	if email == "" {
		email = o.str("email", "contact_email")
	}
	phone := firstStr(addrs, "phone")
	if phone == "" {
		phone = firstStr([]object{customer, o}, "phone")
	}

	return domain.Draft{
		ExternalID: o.identifier("id"),
		Customer: domain.Customer{
			FirstName:  firstStr(addrs, "first_name"),
			LastName:   firstStr(addrs, "last_name"),
			Email:      email,
			Phone:      phone,
			Address:    firstStr(addrs, "address1"),
			Apartment:  firstStr(addrs, "address2"),
			City:       firstStr(addrs, "city"),
			State:      firstStr(addrs, "province"),
			Country:    firstStr(addrs, "country"),
			PostalCode: firstStr(addrs, "zip"),
		},
		Items:        lineItems(o.list("line_items")),
		ShippingCost: shippingCost(o),
		TotalCost:    amount(o, "total_price"),
	}
}

// lineItems maps platform line items with the shared synonym chains.
func lineItems(raw []any) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(raw))
	for _, r := range raw {
		li := asObject(r)
		qty := rawQuantity(li)
		items = append(items, domain.LineItem{
			ProductName: productName(li),
			Quantity:    quantity(qty),
			UnitPrice:   unitPrice(li, qty),
		})
	}
	return items
}
