package impl

import (
	"context"
	"strings"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

type promoService struct {
	gateway service.PaymentGateway
}

// NewPromoService creates the promotion-code validation usecase.
func NewPromoService(gateway service.PaymentGateway) usecase.PromoUsecase {
	return &promoService{gateway: gateway}
}

func (s *promoService) Validate(ctx context.Context, code string) (*service.PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainerrors.ErrPromoCodeMissing
	}

	promo, err := s.gateway.LookupPromoCode(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "lookup promotion code")
	}

	if promo == nil {
		return nil, domainerrors.ErrPromoCodeInvalid
	}

	return promo, nil
}
