// Package money turns the loosely typed price values found in platform
// payloads into exact two-place decimals.
package money

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every monetary value carries.
const Scale = 2

// Zero is the fallback for missing or malformed amounts.
var Zero = decimal.New(0, -Scale)

// Bounds past which a value is treated as malformed. Rescaling a decimal
// costs time proportional to its exponent, so "1e9999999" must be rejected
// before rounding.
const (
	maxExponent      = 32
	maxIntegerDigits = 32
	maxInputLen      = 64
)

// Normalize is NormalizeOr with Zero as the default.
func Normalize(value any) decimal.Decimal {
	return NormalizeOr(value, Zero)
}

// NormalizeOr converts a number, numeric string or decimal into a decimal
// rounded to Scale places. Nil and anything that does not parse as a base-10
// number (booleans, objects, "abc", NaN) yield def. It never panics.
func NormalizeOr(value any, def decimal.Decimal) decimal.Decimal {
	d, ok := parse(value)
	if !ok || !inRange(d) {
		return def
	}
	return Round(d)
}

// NonNegative returns d, or Zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// Round rounds half away from zero to Scale places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Divide splits total evenly across qty units. A non-positive qty returns
// the total unchanged.
func Divide(total decimal.Decimal, qty int64) decimal.Decimal {
	if qty <= 0 {
		return Round(total)
	}
	return total.DivRound(decimal.NewFromInt(qty), Scale)
}

// Format renders d with exactly Scale fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// inRange reports whether d has a plausible exponent and integer part.
func inRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -maxExponent || exp > maxExponent {
		return false
	}
	return exp+int64(d.NumDigits()) <= maxIntegerDigits
}

func parse(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return *v, true
	case json.Number:
		return fromString(v.String())
	case string:
		return fromString(v)
	case float64:
		return fromFloat(v)
	case float32:
		return fromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case uint32:
		return decimal.NewFromInt(int64(v)), true
	case uint64:
		return fromString(strconv.FormatUint(v, 10))
	default:
		return decimal.Decimal{}, false
	}
}

func fromString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}
