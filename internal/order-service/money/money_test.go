package money

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "0.00"},
		{"non numeric string", "abc", "0.00"},
		{"empty string", "", "0.00"},
		{"numeric string", "12.5", "12.50"},
		{"padded string", "  7.25 ", "7.25"},
		{"int", 12, "12.00"},
		{"float", 19.99, "19.99"},
		{"json number", json.Number("1250.5"), "1250.50"},
		{"exponent", "1e2", "100.00"},
		{"rounds half away from zero", "2.345", "2.35"},
		{"negative passes through", "-3", "-3.00"},
		{"bool", true, "0.00"},
		{"object", map[string]any{"amount": "5"}, "0.00"},
		{"list", []any{"5"}, "0.00"},
		{"nan float", math.NaN(), "0.00"},
		{"nan string", "NaN", "0.00"},
		{"decimal", decimal.RequireFromString("4.1"), "4.10"},
		{"large but sane", "1e30", "1000000000000000000000000000000.00"},
		{"huge exponent", "1e9999999", "0.00"},
		{"huge negative exponent", "1e-1000000", "0.00"},
		{"too many integer digits", "123456789e30", "0.00"},
		{"huge float", 1e300, "0.00"},
		{"overlong string", "1" + strings.Repeat("0", 100), "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(Normalize(tt.value)))
		})
	}
}

func TestNormalizeOrUsesDefault(t *testing.T) {
	def := decimal.RequireFromString("9.99")
	assert.Equal(t, "9.99", Format(NormalizeOr("n/a", def)))
	assert.Equal(t, "1.00", Format(NormalizeOr("1", def)))
}

func TestDivide(t *testing.T) {
	total := decimal.RequireFromString("30.00")

	assert.Equal(t, "10.00", Format(Divide(total, 3)))
	assert.Equal(t, "30.00", Format(Divide(total, 0)))
	assert.Equal(t, "3.33", Format(Divide(decimal.RequireFromString("10"), 3)))
}

func TestNonNegative(t *testing.T) {
	assert.Equal(t, "0.00", Format(NonNegative(decimal.RequireFromString("-1.50"))))
	assert.Equal(t, "1.50", Format(NonNegative(decimal.RequireFromString("1.50"))))
}

func TestNormalizeRejectsHugeExponentsQuickly(t *testing.T) {
	start := time.Now()
	for _, v := range []any{"1e9999999", "1e-9999999", json.Number("9e2147483647"), decimal.New(1, 1<<30)} {
		assert.Equal(t, "0.00", Format(Normalize(v)))
	}
	assert.Less(t, time.Since(start), time.Second)
}
