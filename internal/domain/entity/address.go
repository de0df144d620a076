// Package entity contains the core business objects of the storefront.
package entity

import "strings"

// Address is the canonical destination or origin for a shipment. Provider
// payloads (payment session, carrier API, checkout request) are mapped into
// this shape; missing optional fields stay empty strings, never null.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// Normalized returns a copy with whitespace trimmed, the country upper-cased
// and defaulted to US. Phone and email are carried along untouched; they are
// contact details, not part of the address identity.
func (a Address) Normalized() Address {
	country := strings.ToUpper(strings.TrimSpace(a.Country))
	if country == "" {
		country = "US"
	}

	return Address{
		Name:       strings.TrimSpace(a.Name),
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    country,
		Phone:      a.Phone,
		Email:      a.Email,
	}
}

// Equal reports whether two addresses match after normalization. Comparison
// is case-sensitive except for the country. Contact details are excluded.
func (a Address) Equal(b Address) bool {
	x, y := a.Normalized(), b.Normalized()

	return x.Name == y.Name &&
		x.Line1 == y.Line1 &&
		x.Line2 == y.Line2 &&
		x.City == y.City &&
		x.State == y.State &&
		x.PostalCode == y.PostalCode &&
		x.Country == y.Country
}

// Shippable reports whether the address carries enough fields to request a
// carrier quote. An empty Line1 downstream means "cannot ship".
func (a Address) Shippable() bool {
	return strings.TrimSpace(a.Line1) != ""
}

// Complete reports whether every field a label purchase needs is present.
func (a Address) Complete() bool {
	return a.Name != "" && a.Line1 != "" && a.City != "" && a.State != "" && a.PostalCode != ""
}

// Summary renders the single-line form used in operator alerts.
func (a Address) Summary() string {
	return a.Line1 + ", " + a.City + " " + a.State + " " + a.PostalCode
}

// ShipLock is the address snapshot captured at checkout time and embedded in
// the payment session metadata. It is created once per checkout session,
// never mutated, and compared against the resolved address at fulfillment
// time to detect tampering.
type ShipLock struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Address converts the snapshot back into the canonical shape.
func (l ShipLock) Address() Address {
	return Address{
		Name:       l.Name,
		Line1:      l.Line1,
		Line2:      l.Line2,
		City:       l.City,
		State:      l.State,
		PostalCode: l.PostalCode,
		Country:    l.Country,
	}
}
