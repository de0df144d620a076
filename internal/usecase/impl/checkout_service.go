package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

// shippingOptionLabel is pinned on the single Checkout shipping option
// regardless of which carrier rate priced it, so the selector text never
// varies between the live-quote and flat-rate paths.
const shippingOptionLabel = "USPS Ground Advantage"

type checkoutService struct {
	products repository.ProductRepository
	gateway  service.PaymentGateway
	carrier  service.CarrierService
	cfg      *config.Config
	logger   *slog.Logger
}

// NewCheckoutService creates the checkout session usecase.
func NewCheckoutService(
	cfg *config.Config,
	logger *slog.Logger,
	products repository.ProductRepository,
	gateway service.PaymentGateway,
	carrier service.CarrierService,
) usecase.CheckoutUsecase {
	return &checkoutService{
		products: products,
		gateway:  gateway,
		carrier:  carrier,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, req *usecase.CheckoutRequest) (string, error) {
	if req == nil || len(req.Items) == 0 {
		return "", domainerrors.ErrEmptyCart
	}

	// A full address including the recipient name is required up front; it
	// becomes the ship-lock and the customer profile.
	shipTo := req.ShipTo.Normalized()
	if !shipTo.Complete() {
		return "", domainerrors.ErrAddressRequired
	}

	lines, metaLines, err := s.priceCart(ctx, req.Items)
	if err != nil {
		return "", err
	}

	metadata, err := sessionMetadata(shipTo, metaLines)
	if err != nil {
		return "", errors.Wrap(err, "encode session metadata")
	}

	shippingCents := s.priceShipping(ctx, shipTo)

	// The customer is created up front with the submitted address so the
	// hosted payment page shows it read-only.
	customerID, err := s.gateway.CreateCustomer(ctx, shipTo)
	if err != nil {
		return "", errors.Wrap(err, "lock customer address")
	}

	url, err := s.gateway.CreateCheckout(ctx, service.CheckoutParams{
		Lines:         lines,
		ShippingCents: shippingCents,
		ShippingLabel: shippingOptionLabel,
		CustomerID:    customerID,
		Metadata:      metadata,
		SuccessURL:    s.cfg.Storefront.Origin + "/thank-you?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.Storefront.Origin + "/cart",
		PromoID:       req.PromoID,
	})
	if err != nil {
		return "", errors.Wrap(err, "create checkout session")
	}

	return url, nil
}

// priceCart resolves every cart line against the catalog and verifies stock.
// The first availability problem aborts the checkout with a conflict so the
// storefront can refresh its cart.
func (s *checkoutService) priceCart(ctx context.Context, cart []entity.CartLine) ([]service.CheckoutLine, []cartMetaLine, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load catalog")
	}

	byID := make(map[string]*entity.Product, len(products))
	byPrice := make(map[string]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
		if products[i].PriceID != "" {
			byPrice[products[i].PriceID] = &products[i]
		}
	}

	lines := make([]service.CheckoutLine, 0, len(cart))
	metaLines := make([]cartMetaLine, 0, len(cart))

	for _, item := range cart {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		product := byID[item.ProductID]
		if product == nil {
			product = byPrice[item.PriceID]
		}

		if product == nil {
			return nil, nil, domainerrors.ErrStockConflict.WithDetails(
				fmt.Sprintf("unknown product %q", item.ProductID))
		}

		if item.Size != "" {
			if available := product.Available(item.Size); int64(available) < qty {
				return nil, nil, domainerrors.ErrStockConflict.WithDetails(
					fmt.Sprintf("%s (%s): %d left", product.Name, item.Size, available))
			}
		} else if !product.InStock {
			return nil, nil, domainerrors.ErrStockConflict.WithDetails(
				fmt.Sprintf("%s: out of stock", product.Name))
		}

		priceID := item.PriceID
		if priceID == "" {
			priceID = product.PriceID
		}
		if priceID == "" {
			return nil, nil, domainerrors.ErrMissingPriceRef.WithDetails(product.ID)
		}

		lines = append(lines, service.CheckoutLine{PriceID: priceID, Quantity: qty})
		metaLines = append(metaLines, cartMetaLine{
			ID:      product.ID,
			PriceID: priceID,
			Qty:     qty,
			Size:    item.Size,
		})
	}

	return lines, metaLines, nil
}

// priceShipping quotes the carrier for a live rate and falls back to the
// configured flat rate when quoting is disabled, fails, or yields nothing
// usable. Checkout always succeeds with some shipping price.
func (s *checkoutService) priceShipping(ctx context.Context, shipTo entity.Address) int64 {
	flat := s.cfg.Shipping.FlatRateCents

	if s.cfg.Shippo.Token == "" || !s.cfg.ShipFrom.Complete() {
		return flat
	}

	shipment, err := s.carrier.Quote(ctx, shipTo, shipFromAddress(s.cfg.ShipFrom), parcelFromConfig(s.cfg.Parcel))
	if err != nil {
		s.logger.Warn("checkout rate quote failed, using flat rate", slog.Any("error", err))

		return flat
	}

	if shipment == nil {
		return flat
	}

	rate := selectCheapestRate(shipment.Rates)
	if rate == nil {
		return flat
	}

	cents, ok := rate.AmountCents()
	if !ok {
		return flat
	}

	return cents
}

func sessionMetadata(shipTo entity.Address, metaLines []cartMetaLine) (map[string]string, error) {
	itemsJSON, err := json.Marshal(metaLines)
	if err != nil {
		return nil, err
	}

	lockJSON, err := json.Marshal(entity.ShipLock{
		Name:       shipTo.Name,
		Line1:      shipTo.Line1,
		Line2:      shipTo.Line2,
		City:       shipTo.City,
		State:      shipTo.State,
		PostalCode: shipTo.PostalCode,
		Country:    shipTo.Country,
	})
	if err != nil {
		return nil, err
	}

	return map[string]string{
		service.MetadataOrderItems: string(itemsJSON),
		service.MetadataShipLock:   string(lockJSON),
	}, nil
}

// priceToCents converts a catalog dollar price into integer cents.
func priceToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
