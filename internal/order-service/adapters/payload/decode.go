package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidJSON is returned by Decode for bodies that are not JSON.
var ErrInvalidJSON = errors.New("payload: invalid json")

// Decode reads a single JSON value keeping numbers as json.Number so ids and
// amounts keep every digit.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return v, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(b []byte) (any, error) {
	return Decode(bytes.NewReader(b))
}

// DomainHint returns the store domain a payload names, used to resolve the
// owning brand when the request does not carry one: store_domain, else the
// value of the first meta_data entry (WooCommerce).
func DomainHint(v any) string {
	o := asObject(v)
	if s := o.str("store_domain"); s != "" {
		return s
	}
	if meta := o.list("meta_data"); len(meta) > 0 {
		return asObject(meta[0]).str("value")
	}
	return ""
}
