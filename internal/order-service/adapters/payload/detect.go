// Package payload maps the order notifications of different e-commerce
// platforms onto the canonical domain.Draft.
//
// Detection is an ordered predicate chain; the first match wins. Order
// matters because platforms share keys: a payload carrying line_items,
// customer and billing is always treated as the customer-object shape.
package payload

// Shape identifies a known source schema.
type Shape int

const (
	// ShapeGeneric is the fallback for anything unrecognised, including
	// non-object JSON.
	ShapeGeneric Shape = iota
	// ShapeCustomerObject is the Shopify style: line_items plus a customer object.
	ShapeCustomerObject
	// ShapeBillingObject is the WooCommerce style: line_items plus a billing object.
	ShapeBillingObject
	// ShapeNative is the service's own format: an items list with canonical keys.
	ShapeNative
)

func (s Shape) String() string {
	switch s {
	case ShapeCustomerObject:
		return "customer_object"
	case ShapeBillingObject:
		return "billing_object"
	case ShapeNative:
		return "native"
	default:
		return "generic"
	}
}

// Detection is the outcome of Detect. Confident is only meaningful for
// ShapeNative and reports that a sampled item exposes a name-like field.
type Detection struct {
	Shape     Shape
	Confident bool
}

type rule struct {
	shape Shape
	match func(object) bool
}

var detectionRules = []rule{
	{ShapeCustomerObject, func(o object) bool { return o.has("line_items") && o.has("customer") }},
	{ShapeBillingObject, func(o object) bool { return o.has("line_items") && o.has("billing") }},
	{ShapeNative, func(o object) bool {
		_, ok := asList(o["items"])
		return ok
	}},
}

// Detect classifies v. It is total: every input maps to exactly one shape.
func Detect(v any) Detection {
	o, ok := v.(map[string]any)
	if !ok {
		return Detection{Shape: ShapeGeneric}
	}
	obj := object(o)
	for _, r := range detectionRules {
		if !r.match(obj) {
			continue
		}
		d := Detection{Shape: r.shape}
		if r.shape == ShapeNative {
			d.Confident = sampleHasName(obj.list("items"))
		}
		return d
	}
	return Detection{Shape: ShapeGeneric}
}

func sampleHasName(items []any) bool {
	if len(items) == 0 {
		return false
	}
	sample := asObject(items[0])
	return sample.has("product_name") || sample.has("name") || sample.has("title")
}

// orderKeys are the top-level keys that mark a body as an order. Bodies with
// none of them are pings or handshakes.
var orderKeys = []string{
	"line_items", "items", "customer", "billing", "shipping_address",
	"total_price", "total", "total_cost", "external_id",
}

// IsOrder reports whether v looks like an order notification rather than a
// platform ping.
func IsOrder(v any) bool {
	o, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, k := range orderKeys {
		if _, found := o[k]; found {
			return true
		}
	}
	return false
}
