package impl

import (
	"context"
	"log/slog"
	"sort"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

type catalogService struct {
	products repository.ProductRepository
	gateway  service.PaymentGateway
	cfg      *config.Config
	logger   *slog.Logger
}

// NewCatalogService creates the catalog usecase.
func NewCatalogService(
	cfg *config.Config,
	logger *slog.Logger,
	products repository.ProductRepository,
	gateway service.PaymentGateway,
) usecase.CatalogUsecase {
	return &catalogService{
		products: products,
		gateway:  gateway,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "find product")
	}

	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product == nil || product.ID == "" || product.Name == "" || product.Price <= 0 {
		return nil, domainerrors.ErrInvalidProduct
	}

	normalizeProduct(product)

	// A product without a payment provider price cannot be checked out, so
	// register one on creation.
	if product.PriceID == "" {
		priceID, err := s.gateway.EnsurePrice(ctx, service.ProductListing{
			LocalID:     product.ID,
			Name:        product.Name,
			Description: product.Description,
			Images:      product.Images,
			UnitAmount:  priceToCents(product.Price),
			Currency:    "usd",
		})
		if err != nil {
			return nil, errors.Wrap(err, "register provider price")
		}

		product.PriceID = priceID
	}

	if err := s.products.Create(ctx, *product); err != nil {
		if errors.Is(err, repository.ErrProductExists) {
			return nil, domainerrors.ErrProductExists
		}

		return nil, errors.Wrap(err, "create product")
	}

	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, product *entity.Product) (*entity.Product, error) {
	if product == nil || id == "" || product.Name == "" || product.Price <= 0 {
		return nil, domainerrors.ErrInvalidProduct
	}

	product.ID = id
	normalizeProduct(product)

	if err := s.products.Update(ctx, *product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "update product")
	}

	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete product")
	}

	return nil
}

func (s *catalogService) SetInventory(ctx context.Context, id string, inventory map[string]int) (*entity.Product, error) {
	if inventory == nil {
		return nil, domainerrors.ErrInvalidInventory
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "find product")
	}

	next := make(map[string]int, len(inventory))
	for size, n := range inventory {
		if n < 0 {
			n = 0
		}
		next[size] = n
	}

	product.Inventory = next
	backfillSizes(product)
	product.RecomputeInStock()

	if err := s.products.Update(ctx, *product); err != nil {
		return nil, errors.Wrap(err, "update inventory")
	}

	return product, nil
}

// normalizeProduct fills derived and defaulted fields so every stored
// product has the same shape.
func normalizeProduct(product *entity.Product) {
	if product.Inventory == nil {
		product.Inventory = make(map[string]int)
	}

	if product.Images == nil {
		product.Images = []string{}
	}

	backfillSizes(product)
	product.RecomputeInStock()
}

// backfillSizes appends inventory keys missing from the size list so the
// storefront always renders every tracked size.
func backfillSizes(product *entity.Product) {
	known := make(map[string]bool, len(product.Sizes))
	for _, size := range product.Sizes {
		known[size] = true
	}

	added := make([]string, 0, len(product.Inventory))
	for size := range product.Inventory {
		if !known[size] {
			added = append(added, size)
		}
	}

	sort.Strings(added)
	product.Sizes = append(product.Sizes, added...)
}
