package usecase

import (
	"context"

	"storefront/internal/domain/service"
)

// PromoUsecase validates storefront promotion codes.
type PromoUsecase interface {
	// Validate resolves an active promotion code to its coupon summary.
	Validate(ctx context.Context, code string) (*service.PromoCode, error)
}
