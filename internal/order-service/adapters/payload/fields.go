package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Basilalghandour/Bot-Project/internal/order-service/money"
)

// Fallbacks applied whenever a source omits a field or supplies garbage.
const (
	// PlaceholderProductName labels line items that carry no usable name.
	PlaceholderProductName = "item"
	// DefaultQuantity is used for missing, zero, negative or unparseable quantities.
	DefaultQuantity = 1
	// MaxQuantity is the largest quantity accepted; anything above is treated
	// as unparseable.
	MaxQuantity = math.MaxInt32
)

// Synonym key chains, highest priority first.
var (
	quantityKeys  = []string{"quantity", "qty"}
	unitPriceKeys = []string{"price", "price_per_unit", "unit_price"}
	lineTotalKeys = []string{"total", "subtotal", "line_total"}
	nameKeys      = []string{"name", "title", "product_name", "product_id"}
)

// object is a JSON object as produced by encoding/json with UseNumber.
type object map[string]any

// asObject treats anything that is not a JSON object as an empty one.
func asObject(v any) object {
	switch m := v.(type) {
	case map[string]any:
		return object(m)
	case object:
		return m
	default:
		return object{}
	}
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

func (o object) has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o object) obj(key string) object {
	return asObject(o[key])
}

func (o object) list(key string) []any {
	l, _ := asList(o[key])
	return l
}

// first returns the first value in keys that is set and not blank.
func (o object) first(keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := o[k]
		if !ok || blank(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// str returns the first non-blank value in keys rendered as a string, or "".
func (o object) str(keys ...string) string {
	v, ok := o.first(keys...)
	if !ok {
		return ""
	}
	return scalarString(v)
}

// firstStr walks several objects sharing one key chain, e.g. shipping then
// billing address.
func firstStr(objs []object, keys ...string) string {
	for _, o := range objs {
		if s := o.str(keys...); s != "" {
			return s
		}
	}
	return ""
}

// identifier copies an id field verbatim, surrounding whitespace included.
// Null, blank and non-scalar values count as absent.
func (o object) identifier(key string) string {
	v, ok := o[key]
	if !ok || blank(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return scalarString(v)
}

func blank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	default:
		return false
	}
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case int, int64, int32:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

// rawQuantity walks the quantity synonyms and returns the first one holding
// a whole number in [1, MaxQuantity]. It returns 0 when none does.
func rawQuantity(item object) int64 {
	for _, k := range quantityKeys {
		v, ok := item[k]
		if !ok || blank(v) {
			continue
		}
		d := money.NormalizeOr(v, decimal.Zero)
		if d.LessThan(decimal.NewFromInt(1)) || d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
			continue
		}
		return d.IntPart()
	}
	return 0
}

func quantity(raw int64) int {
	if raw < 1 {
		return DefaultQuantity
	}
	return int(raw)
}

// unitPrice prefers an explicit unit price; otherwise it divides the line
// total by the raw quantity.
func unitPrice(item object, rawQty int64) decimal.Decimal {
	if v, ok := item.first(unitPriceKeys...); ok {
		return money.NonNegative(money.Normalize(v))
	}
	if v, ok := item.first(lineTotalKeys...); ok {
		return money.NonNegative(money.Divide(money.Normalize(v), rawQty))
	}
	return money.Zero
}

func productName(item object) string {
	if name := item.str(nameKeys...); name != "" {
		return name
	}
	return PlaceholderProductName
}

// shippingCost reads shipping_lines[0].price, then the flat shipping totals.
func shippingCost(o object) decimal.Decimal {
	if lines := o.list("shipping_lines"); len(lines) > 0 {
		if v, ok := asObject(lines[0]).first("price"); ok {
			return money.NonNegative(money.Normalize(v))
		}
	}
	if v, ok := o.first("shipping_total", "shipping_cost"); ok {
		return money.NonNegative(money.Normalize(v))
	}
	return money.Zero
}

func amount(o object, key string) decimal.Decimal {
	return money.NonNegative(money.Normalize(o[key]))
}
