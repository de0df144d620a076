package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CatalogUsecase defines the interface for catalog reads and admin
// maintenance.
type CatalogUsecase interface {
	// ListProducts returns the whole catalog.
	ListProducts(ctx context.Context) ([]entity.Product, error)

	// GetProduct returns one product by id.
	GetProduct(ctx context.Context, id string) (*entity.Product, error)

	// CreateProduct adds a catalog entry, registering a provider price when
	// the entry has none yet.
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)

	// UpdateProduct replaces a catalog entry.
	UpdateProduct(ctx context.Context, id string, product *entity.Product) (*entity.Product, error)

	// DeleteProduct removes a catalog entry.
	DeleteProduct(ctx context.Context, id string) error

	// SetInventory replaces a product's per-size counts and re-derives the
	// stock flag.
	SetInventory(ctx context.Context, id string, inventory map[string]int) (*entity.Product, error)
}
