// Package payment implements the PaymentGateway interface on top of the
// Stripe API.
package payment

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

type gateway struct {
	api           *client.API
	webhookSecret string
	logger        *slog.Logger
}

// NewStripeGateway initializes a Stripe client from the configured secret
// key.
func NewStripeGateway(cfg *config.Config, logger *slog.Logger) service.PaymentGateway {
	api := &client.API{}
	api.Init(cfg.Stripe.SecretKey, nil)

	return &gateway{
		api:           api,
		webhookSecret: cfg.Stripe.WebhookSecret,
		logger:        logger,
	}
}

func (g *gateway) VerifyEvent(payload []byte, signature string) (*service.WebhookEvent, error) {
	// Ignore the API version mismatch so dashboard-configured webhooks newer
	// than the SDK pin still verify.
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errors.Wrap(service.ErrSignatureInvalid, err.Error())
	}

	var object struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data.Raw, &object); err != nil {
		return nil, errors.Wrap(err, "decode event object")
	}

	return &service.WebhookEvent{
		Type:      string(event.Type),
		SessionID: object.ID,
	}, nil
}

func (g *gateway) RetrieveCheckout(ctx context.Context, sessionID string) (*service.CheckoutSnapshot, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")
	params.AddExpand("customer_details")

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieve checkout session %s", sessionID)
	}

	snapshot := &service.CheckoutSnapshot{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}

	if sess.Customer != nil {
		snapshot.CustomerID = sess.Customer.ID
	}

	if cd := sess.CustomerDetails; cd != nil {
		snapshot.CustomerName = cd.Name
		snapshot.CustomerEmail = cd.Email
		snapshot.CustomerPhone = cd.Phone
		snapshot.CustomerAddress = mapAddress(cd.Address, cd.Name)
	}

	if sd := sess.ShippingDetails; sd != nil {
		snapshot.ShippingAddress = mapAddress(sd.Address, sd.Name)
	}

	if pi := sess.PaymentIntent; pi != nil && pi.Shipping != nil {
		snapshot.IntentShipping = mapAddress(pi.Shipping.Address, pi.Shipping.Name)
	}

	if sc := sess.ShippingCost; sc != nil {
		snapshot.ShippingAmount = sc.AmountTotal
		if sc.ShippingRate != nil {
			snapshot.ShippingRateID = sc.ShippingRate.ID
		}
	}

	lines, err := g.listLineItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snapshot.LineItems = lines

	return snapshot, nil
}

func (g *gateway) listLineItems(ctx context.Context, sessionID string) ([]service.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(100)
	params.AddExpand("data.price")

	var lines []service.LineItem

	iter := g.api.CheckoutSessions.ListLineItems(params)
	for iter.Next() {
		li := iter.LineItem()
		line := service.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
		}
		if li.Price != nil {
			line.PriceID = li.Price.ID
			if li.Price.Product != nil {
				line.ProductID = li.Price.Product.ID
			}
		}
		lines = append(lines, line)
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "list line items for %s", sessionID)
	}

	return lines, nil
}

func (g *gateway) CreateCheckout(ctx context.Context, p service.CheckoutParams) (string, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.Lines))
	for _, line := range p.Lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(line.PriceID),
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: lineItems,
		// A single consistent option so the Checkout selector never flips.
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type: stripe.String("fixed_amount"),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(p.ShippingCents),
					Currency: stripe.String(string(stripe.CurrencyUSD)),
				},
				DisplayName: stripe.String(p.ShippingLabel),
			},
		}},
		AutomaticTax: &stripe.CheckoutSessionAutomaticTaxParams{
			Enabled: stripe.Bool(true),
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: p.Metadata,
		},
	}
	params.Context = ctx

	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
		// View-only address on the hosted page.
		params.CustomerUpdate = &stripe.CheckoutSessionCustomerUpdateParams{
			Address:  stripe.String("never"),
			Shipping: stripe.String("never"),
			Name:     stripe.String("never"),
		}
	}

	if p.PromoID != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{{
			PromotionCode: stripe.String(p.PromoID),
		}}
	} else {
		params.AllowPromotionCodes = stripe.Bool(true)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", errors.Wrap(err, "create checkout session")
	}

	return sess.URL, nil
}

func (g *gateway) CreateCustomer(ctx context.Context, addr entity.Address) (string, error) {
	params := &stripe.CustomerParams{
		Name:    stripe.String(addr.Name),
		Address: addressParams(addr),
		Shipping: &stripe.CustomerShippingParams{
			Name:    stripe.String(addr.Name),
			Address: addressParams(addr),
		},
	}
	params.Context = ctx

	if addr.Email != "" {
		params.Email = stripe.String(addr.Email)
	}

	if addr.Phone != "" {
		params.Phone = stripe.String(addr.Phone)
		params.Shipping.Phone = stripe.String(addr.Phone)
	}

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", errors.Wrap(err, "create customer")
	}

	return cust.ID, nil
}

func (g *gateway) SaveCustomerAddress(ctx context.Context, customerID string, addr entity.Address) error {
	params := &stripe.CustomerParams{
		Address: addressParams(addr),
		Shipping: &stripe.CustomerShippingParams{
			Name:    stripe.String(addr.Name),
			Address: addressParams(addr),
		},
	}
	params.Context = ctx

	if addr.Name != "" {
		params.Name = stripe.String(addr.Name)
	}

	if addr.Phone != "" {
		params.Shipping.Phone = stripe.String(addr.Phone)
	}

	if _, err := g.api.Customers.Update(customerID, params); err != nil {
		return errors.Wrapf(err, "update customer %s", customerID)
	}

	return nil
}

func (g *gateway) EnsurePrice(ctx context.Context, listing service.ProductListing) (string, error) {
	productParams := &stripe.ProductParams{
		Name: stripe.String(listing.Name),
	}
	productParams.Context = ctx
	productParams.AddMetadata("local_id", listing.LocalID)

	if listing.Description != "" {
		productParams.Description = stripe.String(listing.Description)
	}

	if len(listing.Images) > 0 {
		productParams.Images = stripe.StringSlice(listing.Images)
	}

	product, err := g.api.Products.New(productParams)
	if err != nil {
		return "", errors.Wrap(err, "create stripe product")
	}

	currency := listing.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(listing.UnitAmount),
		Currency:   stripe.String(currency),
	}
	priceParams.Context = ctx

	price, err := g.api.Prices.New(priceParams)
	if err != nil {
		return "", errors.Wrap(err, "create stripe price")
	}

	return price.ID, nil
}

func (g *gateway) LookupPromoCode(ctx context.Context, code string) (*service.PromoCode, error) {
	params := &stripe.PromotionCodeListParams{
		Code:   stripe.String(code),
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := g.api.PromotionCodes.List(params)
	for iter.Next() {
		promo := iter.PromotionCode()
		out := &service.PromoCode{
			PromoID:  promo.ID,
			Currency: string(stripe.CurrencyUSD),
		}
		if promo.Coupon != nil {
			out.CouponID = promo.Coupon.ID
			out.PercentOff = promo.Coupon.PercentOff
			out.AmountOff = promo.Coupon.AmountOff
			out.Duration = string(promo.Coupon.Duration)
			if promo.Coupon.Currency != "" {
				out.Currency = string(promo.Coupon.Currency)
			}
		}

		return out, nil
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "list promotion codes for %q", code)
	}

	return nil, nil
}

func mapAddress(addr *stripe.Address, name string) *entity.Address {
	if addr == nil {
		return nil
	}

	return &entity.Address{
		Name:       name,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}

func addressParams(addr entity.Address) *stripe.AddressParams {
	return &stripe.AddressParams{
		Line1:      stripe.String(addr.Line1),
		Line2:      stripe.String(addr.Line2),
		City:       stripe.String(addr.City),
		State:      stripe.String(addr.State),
		PostalCode: stripe.String(addr.PostalCode),
		Country:    stripe.String(addr.Country),
	}
}
