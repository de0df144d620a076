package impl

import (
	"context"
	"log/slog"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// inventoryDecrement is one sold line to subtract from the catalog.
type inventoryDecrement struct {
	ProductID string
	PriceID   string
	Size      string
	Quantity  int64
}

// inventoryLedger applies post-sale stock decrements to the catalog in a
// single read-modify-write pass.
type inventoryLedger struct {
	products repository.ProductRepository
	logger   *slog.Logger
}

func newInventoryLedger(products repository.ProductRepository, logger *slog.Logger) *inventoryLedger {
	return &inventoryLedger{products: products, logger: logger}
}

// ApplyDecrements subtracts sold quantities per size, clamping at zero, and
// re-derives each touched product's stock flag. Lines that match no catalog
// entry, or carry no size, are skipped with a warning rather than failing
// the whole pass. The catalog is persisted in one write.
func (l *inventoryLedger) ApplyDecrements(ctx context.Context, decrements []inventoryDecrement) error {
	if len(decrements) == 0 {
		return nil
	}

	products, err := l.products.List(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	byID := make(map[string]*entity.Product, len(products))
	byPrice := make(map[string]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
		if products[i].PriceID != "" {
			byPrice[products[i].PriceID] = &products[i]
		}
	}

	changed := false

	for _, dec := range decrements {
		product := byID[dec.ProductID]
		if product == nil {
			product = byPrice[dec.PriceID]
		}

		if product == nil || dec.Size == "" {
			l.logger.Warn("skipping inventory decrement",
				slog.String("product_id", dec.ProductID),
				slog.String("price_id", dec.PriceID),
				slog.String("size", dec.Size))

			continue
		}

		if product.Inventory == nil {
			product.Inventory = make(map[string]int)
		}

		next := product.Available(dec.Size) - int(dec.Quantity)
		if next < 0 {
			next = 0
		}

		product.Inventory[dec.Size] = next
		product.RecomputeInStock()
		changed = true
	}

	if !changed {
		return nil
	}

	return l.products.ReplaceAll(ctx, products)
}
