package impl

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
)

// fakeProductRepo is an in-memory stand-in for the file-backed catalog.
type fakeProductRepo struct {
	products []entity.Product
	listErr  error
	replaced [][]entity.Product
}

func (f *fakeProductRepo) List(ctx context.Context) ([]entity.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]entity.Product, len(f.products))
	copy(out, f.products)

	return out, nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]

			return &p, nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (f *fakeProductRepo) Create(ctx context.Context, product entity.Product) error {
	for i := range f.products {
		if f.products[i].ID == product.ID {
			return repository.ErrProductExists
		}
	}

	f.products = append(f.products, product)

	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product entity.Product) error {
	for i := range f.products {
		if f.products[i].ID == product.ID {
			f.products[i] = product

			return nil
		}
	}

	return repository.ErrProductNotFound
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	next := f.products[:0]
	for i := range f.products {
		if f.products[i].ID != id {
			next = append(next, f.products[i])
		}
	}
	f.products = next

	return nil
}

func (f *fakeProductRepo) ReplaceAll(ctx context.Context, products []entity.Product) error {
	f.products = products
	f.replaced = append(f.replaced, products)

	return nil
}

// fakeOrderRepo is an in-memory stand-in for the file-backed order log.
type fakeOrderRepo struct {
	orders []entity.Order
}

func (f *fakeOrderRepo) Append(ctx context.Context, order entity.Order) error {
	f.orders = append(f.orders, order)

	return nil
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]entity.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i], nil
		}
	}

	return nil, repository.ErrOrderNotFound
}

// fakeGateway scripts the payment provider per test case.
type fakeGateway struct {
	verifyEvent  *service.WebhookEvent
	verifyErr    error
	snapshot     *service.CheckoutSnapshot
	retrieveErr  error
	checkoutURL  string
	checkoutErr  error
	customerID   string
	customerErr  error
	priceID      string
	promo        *service.PromoCode
	promoErr     error
	savedAddrs   []entity.Address
	saveAddrErr  error
	checkouts    []service.CheckoutParams
	customers    []entity.Address
	listings     []service.ProductListing
	lookedUp     []string
	verifiedSigs []string
}

func (f *fakeGateway) VerifyEvent(payload []byte, signature string) (*service.WebhookEvent, error) {
	f.verifiedSigs = append(f.verifiedSigs, signature)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}

	return f.verifyEvent, nil
}

func (f *fakeGateway) RetrieveCheckout(ctx context.Context, sessionID string) (*service.CheckoutSnapshot, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}

	return f.snapshot, nil
}

func (f *fakeGateway) CreateCheckout(ctx context.Context, params service.CheckoutParams) (string, error) {
	f.checkouts = append(f.checkouts, params)
	if f.checkoutErr != nil {
		return "", f.checkoutErr
	}

	return f.checkoutURL, nil
}

func (f *fakeGateway) CreateCustomer(ctx context.Context, addr entity.Address) (string, error) {
	f.customers = append(f.customers, addr)
	if f.customerErr != nil {
		return "", f.customerErr
	}

	return f.customerID, nil
}

func (f *fakeGateway) SaveCustomerAddress(ctx context.Context, customerID string, addr entity.Address) error {
	f.savedAddrs = append(f.savedAddrs, addr)

	return f.saveAddrErr
}

func (f *fakeGateway) EnsurePrice(ctx context.Context, listing service.ProductListing) (string, error) {
	f.listings = append(f.listings, listing)

	return f.priceID, nil
}

func (f *fakeGateway) LookupPromoCode(ctx context.Context, code string) (*service.PromoCode, error) {
	f.lookedUp = append(f.lookedUp, code)
	if f.promoErr != nil {
		return nil, f.promoErr
	}

	return f.promo, nil
}

// fakeCarrier scripts the carrier-rate API per test case.
type fakeCarrier struct {
	shipment    *entity.Shipment
	quoteErr    error
	label       *entity.PurchasedLabel
	purchaseErr error
	quotes      []entity.Address
	purchases   []entity.RateQuote
}

func (f *fakeCarrier) Quote(ctx context.Context, to, from entity.Address, parcel entity.Parcel) (*entity.Shipment, error) {
	f.quotes = append(f.quotes, to)
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}

	return f.shipment, nil
}

func (f *fakeCarrier) Purchase(ctx context.Context, rate entity.RateQuote) (*entity.PurchasedLabel, error) {
	f.purchases = append(f.purchases, rate)
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}

	return f.label, nil
}

// fakeSink records operator notifications.
type fakeSink struct {
	messages []string
	err      error
}

func (f *fakeSink) Notify(ctx context.Context, message string) error {
	f.messages = append(f.messages, message)

	return f.err
}
