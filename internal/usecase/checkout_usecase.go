package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CheckoutRequest is the cart submitted by the storefront.
type CheckoutRequest struct {
	Items   []entity.CartLine `json:"items"`
	ShipTo  entity.Address    `json:"shipTo"`
	PromoID string            `json:"promoId"`
}

// CheckoutUsecase creates hosted payment sessions for submitted carts.
type CheckoutUsecase interface {
	// CreateSession validates the cart against current stock, locks the
	// shipping address, prices shipping and returns the hosted payment URL.
	CreateSession(ctx context.Context, req *CheckoutRequest) (string, error)
}
