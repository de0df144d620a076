package entity

import "time"

// OrderItem is one purchased line. ProductID and PriceID are both kept
// because line items may reference the catalog by either key depending on
// provenance.
type OrderItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	PriceID     string `json:"priceId"`
	ProductID   string `json:"productId"`
	Size        string `json:"size"`
}

// Order is one fulfilled payment session. ID is the payment session id and
// doubles as the idempotency key: re-processing the same session must not
// create a duplicate. Orders are created exactly once and never mutated.
type Order struct {
	ID             string          `json:"id"`
	Hold           bool            `json:"hold"`
	HoldReason     string          `json:"hold_reason"`
	PaymentStatus  string          `json:"payment_status"`
	AmountTotal    int64           `json:"amount_total"`
	Currency       string          `json:"currency"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Address        Address         `json:"address"`
	ShippingRateID string          `json:"shipping_rate"`
	ShippingAmount int64           `json:"shipping_amount"`
	Items          []OrderItem     `json:"items"`
	Label          *PurchasedLabel `json:"label,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// HoldReasonAddressChanged marks orders held because the Checkout address
// differs from the cart's locked address.
const HoldReasonAddressChanged = "ADDRESS_CHANGED"
