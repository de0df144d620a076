// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists is returned when creating a product whose id is taken.
	ErrProductExists = errors.New("product id already exists")
)

// ProductRepository defines the interface for catalog storage. The backing
// store is a single collection rewritten wholesale on every mutation, so
// implementations must serialize writers.
type ProductRepository interface {
	// List retrieves the full catalog.
	List(ctx context.Context) ([]entity.Product, error)

	// FindByID retrieves a single product by its local id.
	FindByID(ctx context.Context, id string) (*entity.Product, error)

	// Create persists a new product. Fails with ErrProductExists on duplicate id.
	Create(ctx context.Context, product entity.Product) error

	// Update replaces an existing product. Fails with ErrProductNotFound.
	Update(ctx context.Context, product entity.Product) error

	// Delete removes a product by id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// ReplaceAll rewrites the whole catalog in one write. Used by the
	// inventory ledger to apply a batch of decrements atomically.
	ReplaceAll(ctx context.Context, products []entity.Product) error
}
