package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrBrandNotFound indicates the brand could not be located.
	ErrBrandNotFound = errors.New("brand: not found")
	// ErrCustomerNotFound indicates the customer could not be located.
	ErrCustomerNotFound = errors.New("customer: not found")
	// ErrDuplicateExternalID signals another order already owns the external id.
	ErrDuplicateExternalID = errors.New("order: duplicate external id")
	// ErrMalformedToken signals a callback action token that cannot be parsed.
	ErrMalformedToken = errors.New("callback: malformed action token")
)

// ValidationError carries field-level messages for a rejected draft.
type ValidationError struct {
	Fields map[string][]string
	Cause  error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DuplicateExternalID builds the validation error returned when an external id
// is already taken. It unwraps to ErrDuplicateExternalID.
func DuplicateExternalID() *ValidationError {
	ve := &ValidationError{Cause: ErrDuplicateExternalID}
	ve.add("external_id", "order with this external id already exists")
	return ve
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
