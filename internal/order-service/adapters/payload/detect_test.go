package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, body string) any {
	t.Helper()
	v, err := DecodeBytes([]byte(body))
	require.NoError(t, err)
	return v
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		shape     Shape
		confident bool
	}{
		{"customer object", `{"line_items":[],"customer":{}}`, ShapeCustomerObject, false},
		{"billing object", `{"line_items":[],"billing":{}}`, ShapeBillingObject, false},
		{"customer wins over billing", `{"billing":{},"line_items":[],"customer":{}}`, ShapeCustomerObject, false},
		{"native with names", `{"items":[{"product_name":"Mug"}]}`, ShapeNative, true},
		{"native without names", `{"items":[{"sku":"A1"}]}`, ShapeNative, false},
		{"native empty list", `{"items":[]}`, ShapeNative, false},
		{"items not a list", `{"items":{"a":1}}`, ShapeGeneric, false},
		{"line items alone", `{"line_items":[]}`, ShapeGeneric, false},
		{"empty object", `{}`, ShapeGeneric, false},
		{"array", `[1,2,3]`, ShapeGeneric, false},
		{"string", `"hello"`, ShapeGeneric, false},
		{"null", `null`, ShapeGeneric, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(mustDecode(t, tt.body))
			assert.Equal(t, tt.shape, got.Shape)
			assert.Equal(t, tt.confident, got.Confident)
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	v := mustDecode(t, `{"line_items":[{"name":"A"}],"billing":{"email":"x@y.z"},"customer":{"email":"a@b.c"}}`)

	first := Detect(v)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Detect(v))
	}
	assert.Equal(t, ShapeCustomerObject, first.Shape)
}

func TestIsOrder(t *testing.T) {
	assert.True(t, IsOrder(mustDecode(t, `{"line_items":[]}`)))
	assert.True(t, IsOrder(mustDecode(t, `{"items":[]}`)))
	assert.False(t, IsOrder(mustDecode(t, `{"webhook_id":42}`)))
	assert.False(t, IsOrder(mustDecode(t, `[]`)))
}

func TestDomainHint(t *testing.T) {
	assert.Equal(t, "shop.example.com", DomainHint(mustDecode(t, `{"store_domain":"shop.example.com"}`)))
	assert.Equal(t, "woo.example.com", DomainHint(mustDecode(t, `{"meta_data":[{"key":"site","value":"woo.example.com"}]}`)))
	assert.Equal(t, "", DomainHint(mustDecode(t, `{"meta_data":[]}`)))
	assert.Equal(t, "", DomainHint(mustDecode(t, `"x"`)))
}
