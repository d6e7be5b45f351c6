package payload

import (
	"github.com/Basilalghandour/Bot-Project/internal/order-service/domain"
	"github.com/Basilalghandour/Bot-Project/internal/order-service/money"
)

type adapterFunc func(object, Detection) domain.Draft

var adapters = map[Shape]adapterFunc{
	ShapeCustomerObject: adaptShopify,
	ShapeBillingObject:  adaptWooCommerce,
	ShapeNative:         adaptNative,
	ShapeGeneric:        adaptGeneric,
}

// Adapt detects the shape of v and maps it onto a draft. It never fails:
// unknown shapes produce a minimal draft with no items.
func Adapt(v any) domain.Draft {
	d, _ := AdaptDetected(v)
	return d
}

// AdaptDetected is Adapt that also reports the detection it acted on.
func AdaptDetected(v any) (domain.Draft, Detection) {
	det := Detect(v)
	draft := adapters[det.Shape](asObject(v), det)
	if draft.Items == nil {
		draft.Items = []domain.LineItem{}
	}
	return draft, det
}

// adaptGeneric keeps whatever canonical customer object is present and
// nothing else.
func adaptGeneric(o object, _ Detection) domain.Draft {
	return domain.Draft{
		ExternalID:   o.identifier("id"),
		Customer:     nativeCustomer(o.obj("customer")),
		Items:        []domain.LineItem{},
		ShippingCost: money.Zero,
		TotalCost:    money.Zero,
	}
}
