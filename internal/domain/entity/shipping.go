package entity

import "strconv"

// RateQuote is one carrier/service/price/speed option from a shipment quote.
// Amount stays a decimal string as the carrier API returns it; quotes are
// ephemeral and never persisted beyond the chosen rate on the order.
type RateQuote struct {
	RateID        string `json:"object_id"`
	Carrier       string `json:"carrier"`
	Service       string `json:"service"`
	Amount        string `json:"amount"`
	EstimatedDays int    `json:"estimated_days"`
}

// AmountValue parses the decimal amount. Unparsable amounts report false and
// are treated as worse than any valid rate.
func (r RateQuote) AmountValue() (float64, bool) {
	v, err := strconv.ParseFloat(r.Amount, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// AmountCents converts the decimal amount into integer cents.
func (r RateQuote) AmountCents() (int64, bool) {
	v, ok := r.AmountValue()
	if !ok {
		return 0, false
	}

	return int64(v*100 + 0.5), true
}

// Shipment is the result of a quote request against the carrier-rate API.
type Shipment struct {
	ShipmentID string
	Rates      []RateQuote
}

// PurchasedLabel is the result of buying a rate.
type PurchasedLabel struct {
	LabelURL       string `json:"label_url"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
	Service        string `json:"service"`
}

// Parcel is the package to quote, inches and ounces.
type Parcel struct {
	LengthIn float64
	WidthIn  float64
	HeightIn float64
	WeightOz float64
}
