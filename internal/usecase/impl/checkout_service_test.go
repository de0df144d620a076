package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixtures struct {
	service  usecase.CheckoutUsecase
	gateway  *fakeGateway
	carrier  *fakeCarrier
	products *fakeProductRepo
	cfg      *config.Config
}

func createTestCheckout(t *testing.T) checkoutFixtures {
	t.Helper()

	cfg := &config.Config{}
	cfg.Shippo.Token = "shippo_tok"
	cfg.ShipFrom = config.ShipFrom{
		Name: "Shop", Street1: "9 Dock Rd", City: "Reno", State: "NV", Zip: "89501", Country: "US",
	}
	cfg.Shipping.FlatRateCents = 800
	cfg.Storefront.Origin = "https://shop.test"

	gateway := &fakeGateway{checkoutURL: "https://pay.test/cs_1", customerID: "cus_1"}
	carrier := &fakeCarrier{}
	products := &fakeProductRepo{products: []entity.Product{{
		ID: "tee", PriceID: "price_tee", Name: "Logo Tee", Price: 20,
		Inventory: map[string]int{"M": 3}, InStock: true,
	}}}

	svc := NewCheckoutService(cfg, slog.New(slog.DiscardHandler), products, gateway, carrier)

	return checkoutFixtures{service: svc, gateway: gateway, carrier: carrier, products: products, cfg: cfg}
}

func validCheckoutRequest() *usecase.CheckoutRequest {
	return &usecase.CheckoutRequest{
		Items: []entity.CartLine{{ProductID: "tee", PriceID: "price_tee", Quantity: 2, Size: "M"}},
		ShipTo: entity.Address{
			Name: "Ada Lovelace", Line1: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701",
		},
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)

	return appErr.HTTPCode()
}

func TestCheckout_CreateSession(t *testing.T) {
	fx := createTestCheckout(t)
	fx.carrier.shipment = &entity.Shipment{
		Rates: []entity.RateQuote{
			{RateID: "rate_usps", Carrier: "USPS", Service: "Ground Advantage", Amount: "5.25", EstimatedDays: 3},
			{RateID: "rate_ups", Carrier: "UPS", Service: "Ground", Amount: "4.80", EstimatedDays: 2},
		},
	}

	url, err := fx.service.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/cs_1", url)

	// Customer created with the normalized submitted address.
	require.Len(t, fx.gateway.customers, 1)
	assert.Equal(t, "US", fx.gateway.customers[0].Country)

	require.Len(t, fx.gateway.checkouts, 1)
	params := fx.gateway.checkouts[0]
	assert.Equal(t, "cus_1", params.CustomerID)
	assert.Equal(t, []service.CheckoutLine{{PriceID: "price_tee", Quantity: 2}}, params.Lines)
	assert.Equal(t, int64(525), params.ShippingCents)
	assert.Equal(t, "USPS Ground Advantage", params.ShippingLabel)
	assert.Equal(t, "https://shop.test/thank-you?session_id={CHECKOUT_SESSION_ID}", params.SuccessURL)
	assert.Equal(t, "https://shop.test/cart", params.CancelURL)

	var lock entity.ShipLock
	require.NoError(t, json.Unmarshal([]byte(params.Metadata[service.MetadataShipLock]), &lock))
	assert.Equal(t, "1 Main St", lock.Line1)
	assert.Equal(t, "78701", lock.PostalCode)

	var metaLines []cartMetaLine
	require.NoError(t, json.Unmarshal([]byte(params.Metadata[service.MetadataOrderItems]), &metaLines))
	require.Len(t, metaLines, 1)
	assert.Equal(t, cartMetaLine{ID: "tee", PriceID: "price_tee", Qty: 2, Size: "M"}, metaLines[0])
}

func TestCheckout_FlatRateWhenQuoteUnavailable(t *testing.T) {
	fx := createTestCheckout(t)
	fx.carrier.quoteErr = service.ErrCarrierUnavailable

	_, err := fx.service.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)

	params := fx.gateway.checkouts[0]
	assert.Equal(t, int64(800), params.ShippingCents)
	assert.Equal(t, "USPS Ground Advantage", params.ShippingLabel)
}

func TestCheckout_FlatRateWhenCarrierDisabled(t *testing.T) {
	fx := createTestCheckout(t)
	fx.cfg.Shippo.Token = ""

	_, err := fx.service.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)

	assert.Empty(t, fx.carrier.quotes)
	assert.Equal(t, int64(800), fx.gateway.checkouts[0].ShippingCents)
}

func TestCheckout_FlatRateWhenCarrierReturnsNoShipment(t *testing.T) {
	fx := createTestCheckout(t)
	// Quote yields neither an error nor a shipment; checkout still prices
	// shipping at the flat rate instead of failing.

	_, err := fx.service.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(800), fx.gateway.checkouts[0].ShippingCents)
}

func TestCheckout_ShippingLabelPinnedOnLiveQuote(t *testing.T) {
	fx := createTestCheckout(t)
	fx.carrier.shipment = &entity.Shipment{
		Rates: []entity.RateQuote{
			{RateID: "rate_ups", Carrier: "UPS", Service: "Ground", Amount: "4.80", EstimatedDays: 2},
		},
	}

	_, err := fx.service.CreateSession(context.Background(), validCheckoutRequest())
	require.NoError(t, err)

	params := fx.gateway.checkouts[0]
	assert.Equal(t, int64(480), params.ShippingCents)
	// The display name stays fixed even when another carrier priced it.
	assert.Equal(t, "USPS Ground Advantage", params.ShippingLabel)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	fx := createTestCheckout(t)

	_, err := fx.service.CreateSession(context.Background(), &usecase.CheckoutRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
}

func TestCheckout_IncompleteAddressRejected(t *testing.T) {
	fx := createTestCheckout(t)

	req := validCheckoutRequest()
	req.ShipTo.PostalCode = ""

	_, err := fx.service.CreateSession(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	assert.Empty(t, fx.gateway.checkouts)
}

func TestCheckout_NamelessAddressRejected(t *testing.T) {
	fx := createTestCheckout(t)

	req := validCheckoutRequest()
	req.ShipTo.Name = "  "

	_, err := fx.service.CreateSession(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
	assert.Empty(t, fx.gateway.customers)
}

func TestCheckout_UnknownProductConflicts(t *testing.T) {
	fx := createTestCheckout(t)

	req := validCheckoutRequest()
	req.Items[0].ProductID = "ghost"
	req.Items[0].PriceID = "price_ghost"

	_, err := fx.service.CreateSession(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrCode(t, err))
}

func TestCheckout_InsufficientStockConflicts(t *testing.T) {
	fx := createTestCheckout(t)

	req := validCheckoutRequest()
	req.Items[0].Quantity = 5

	_, err := fx.service.CreateSession(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrCode(t, err))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details(), "Logo Tee")
}

func TestCheckout_MissingPriceRefRejected(t *testing.T) {
	fx := createTestCheckout(t)
	fx.products.products[0].PriceID = ""

	req := validCheckoutRequest()
	req.Items[0].PriceID = ""

	_, err := fx.service.CreateSession(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
}

func TestCheckout_QuantityNormalizedToAtLeastOne(t *testing.T) {
	fx := createTestCheckout(t)

	req := validCheckoutRequest()
	req.Items[0].Quantity = 0

	_, err := fx.service.CreateSession(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), fx.gateway.checkouts[0].Lines[0].Quantity)
}

func TestCheckout_PromoIDPassedThrough(t *testing.T) {
	fx := createTestCheckout(t)

	req := validCheckoutRequest()
	req.PromoID = "promo_1"

	_, err := fx.service.CreateSession(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "promo_1", fx.gateway.checkouts[0].PromoID)
}
