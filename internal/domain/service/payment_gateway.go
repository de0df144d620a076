// Package service defines the interfaces implemented by external
// integrations (payment provider, carrier-rate API, notification bot).
package service

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrSignatureInvalid is returned when a webhook payload fails signature
// verification. It is the only fulfillment error surfaced to the caller.
var ErrSignatureInvalid = errors.New("webhook signature verification failed")

// Metadata keys embedded in the payment session at checkout time.
const (
	MetadataOrderItems = "order_items"
	MetadataShipLock   = "ship_lock"
)

// EventCheckoutCompleted is the payment event that triggers fulfillment.
const EventCheckoutCompleted = "checkout.session.completed"

// WebhookEvent is a verified payment provider event.
type WebhookEvent struct {
	Type      string
	SessionID string
}

// LineItem is one purchased line as reported by the payment provider.
type LineItem struct {
	Description string
	Quantity    int64
	PriceID     string
	ProductID   string
}

// CheckoutSnapshot is a provider-agnostic view of a payment session,
// re-fetched after the completion event so shipping details and the payment
// intent are fresh. Address pointers are nil when the provider omitted the
// corresponding payload section.
type CheckoutSnapshot struct {
	ID            string
	PaymentStatus string
	AmountTotal   int64
	Currency      string

	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	// ShippingAddress is what the payer entered on the payment page.
	ShippingAddress *entity.Address
	// CustomerAddress is the payer profile's stored address.
	CustomerAddress *entity.Address
	// IntentShipping is the payment intent's embedded shipping sub-object,
	// populated by some wallet flows when the other two are empty.
	IntentShipping *entity.Address

	ShippingRateID string
	ShippingAmount int64

	Metadata  map[string]string
	LineItems []LineItem
}

// CheckoutLine is one priced line for session creation.
type CheckoutLine struct {
	PriceID  string
	Quantity int64
}

// CheckoutParams collects everything needed to create a hosted payment
// session.
type CheckoutParams struct {
	Lines         []CheckoutLine
	ShippingCents int64
	ShippingLabel string
	CustomerID    string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
	PromoID       string
}

// ProductListing describes a catalog entry that needs a provider-side price.
type ProductListing struct {
	LocalID     string
	Name        string
	Description string
	Images      []string
	UnitAmount  int64
	Currency    string
}

// PromoCode is the result of a promotion-code lookup.
type PromoCode struct {
	PromoID    string  `json:"promoId"`
	CouponID   string  `json:"id"`
	PercentOff float64 `json:"percent_off"`
	AmountOff  int64   `json:"amount_off"`
	Currency   string  `json:"currency"`
	Duration   string  `json:"duration"`
}

// PaymentGateway wraps the payment provider.
type PaymentGateway interface {
	// VerifyEvent checks the webhook signature against the shared secret and
	// decodes the event. Fails with ErrSignatureInvalid on any mismatch.
	VerifyEvent(payload []byte, signature string) (*WebhookEvent, error)

	// RetrieveCheckout re-fetches the authoritative session, including line
	// items, customer details and the expanded payment intent.
	RetrieveCheckout(ctx context.Context, sessionID string) (*CheckoutSnapshot, error)

	// CreateCheckout creates a hosted payment session and returns its
	// redirect URL.
	CreateCheckout(ctx context.Context, params CheckoutParams) (string, error)

	// CreateCustomer registers the payer with their locked shipping address
	// so the hosted payment page cannot edit it.
	CreateCustomer(ctx context.Context, addr entity.Address) (string, error)

	// SaveCustomerAddress writes the resolved destination back onto the
	// payer profile. Best effort; callers log and ignore failures.
	SaveCustomerAddress(ctx context.Context, customerID string, addr entity.Address) error

	// EnsurePrice creates a provider product and price for a new catalog
	// entry and returns the price reference.
	EnsurePrice(ctx context.Context, listing ProductListing) (string, error)

	// LookupPromoCode resolves an active promotion code, nil when unknown.
	LookupPromoCode(ctx context.Context, code string) (*PromoCode, error)
}
