package service

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Carrier failure modes. All of them are non-fatal to fulfillment: the
// orchestrator records the order without a label and lets operators ship
// manually.
var (
	// ErrCarrierUnavailable is returned when the rate API responds non-2xx.
	ErrCarrierUnavailable = errors.New("carrier rate service unavailable")
	// ErrLabelPurchaseFailed is returned when the label transaction reaches a
	// terminal error state.
	ErrLabelPurchaseFailed = errors.New("label purchase failed")
	// ErrLabelPurchaseTimedOut is returned when the label transaction is
	// still pending after the polling budget is exhausted.
	ErrLabelPurchaseTimedOut = errors.New("label purchase still pending")
)

// CarrierService wraps the carrier-rate API.
type CarrierService interface {
	// Quote requests a shipment and returns all carrier rates for it.
	Quote(ctx context.Context, to, from entity.Address, parcel entity.Parcel) (*entity.Shipment, error)

	// Purchase buys a label for the chosen rate, polling the asynchronous
	// transaction to completion. The call is time-bounded; it never blocks
	// past the polling budget.
	Purchase(ctx context.Context, rate entity.RateQuote) (*entity.PurchasedLabel, error)
}
