package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	maxExternalIDLen  = 255
	maxProductNameLen = 100
	maxNameLen        = 100
	maxAddressLen     = 255
	maxShortFieldLen  = 100
	maxCountryLen     = 50
	maxPostalCodeLen  = 20
	maxPhoneLen       = 32
	maxEmailLen       = 254
)

// maxAmount is the exclusive upper bound of a DECIMAL(10,2) column.
var maxAmount = decimal.New(1, 8)

// Validate runs the required-field checks a draft must pass before it is
// persisted. It returns a *ValidationError listing every failing field.
func (d Draft) Validate() error {
	ve := &ValidationError{}

	checkLen(ve, "external_id", d.ExternalID, maxExternalIDLen)

	c := d.Customer
	checkLen(ve, "customer.first_name", c.FirstName, maxNameLen)
	checkLen(ve, "customer.last_name", c.LastName, maxNameLen)
	checkLen(ve, "customer.phone", c.Phone, maxPhoneLen)
	checkLen(ve, "customer.address", c.Address, maxAddressLen)
	checkLen(ve, "customer.apartment", c.Apartment, maxShortFieldLen)
	checkLen(ve, "customer.city", c.City, maxShortFieldLen)
	checkLen(ve, "customer.state", c.State, maxShortFieldLen)
	checkLen(ve, "customer.country", c.Country, maxCountryLen)
	checkLen(ve, "customer.postal_code", c.PostalCode, maxPostalCodeLen)
	// Customer emails come from store payloads as typed by shoppers; only
	// the length is bounded.
	checkLen(ve, "customer.email", c.Email, maxEmailLen)

	if d.Items == nil {
		ve.add("items", "this field is required")
	}
	for i, it := range d.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if it.ProductName == "" {
			ve.add(prefix+"product_name", "this field may not be blank")
		}
		checkLen(ve, prefix+"product_name", it.ProductName, maxProductNameLen)
		if it.Quantity < 1 {
			ve.add(prefix+"quantity", "ensure this value is greater than or equal to 1")
		}
		checkAmount(ve, prefix+"price", it.UnitPrice)
	}

	checkAmount(ve, "shipping_cost", d.ShippingCost)
	checkAmount(ve, "total_cost", d.TotalCost)

	if ve.empty() {
		return nil
	}
	return ve
}

// Validate checks a brand before it is created. Name and website are
// required; the website is what incoming orders are matched against.
func (b Brand) Validate() error {
	ve := &ValidationError{}

	if strings.TrimSpace(b.Name) == "" {
		ve.add("name", "this field may not be blank")
	}
	checkLen(ve, "name", b.Name, maxNameLen)
	if strings.TrimSpace(b.Website) == "" {
		ve.add("website", "this field may not be blank")
	}
	checkLen(ve, "website", b.Website, maxAddressLen)
	checkLen(ve, "phone_number", b.PhoneNumber, maxPhoneLen)
	if b.ContactEmail != "" {
		if addr, err := mail.ParseAddress(b.ContactEmail); err != nil || addr.Address != b.ContactEmail {
			ve.add("contact_email", "enter a valid email address")
		}
	}

	if ve.empty() {
		return nil
	}
	return ve
}

func checkLen(ve *ValidationError, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		ve.add(field, fmt.Sprintf("ensure this field has no more than %d characters", limit))
	}
}

func checkAmount(ve *ValidationError, field string, v decimal.Decimal) {
	switch {
	case v.IsNegative():
		ve.add(field, "ensure this value is greater than or equal to 0")
	case v.GreaterThanOrEqual(maxAmount):
		ve.add(field, "ensure there are no more than 10 digits in total")
	case v.Exponent() < -2 && !v.Equal(v.Round(2)):
		ve.add(field, "ensure there are no more than 2 decimal places")
	}
}
