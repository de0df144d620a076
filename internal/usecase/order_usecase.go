package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// OrderUsecase exposes fulfilled orders to operators.
type OrderUsecase interface {
	// ListOrders returns every recorded order.
	ListOrders(ctx context.Context) ([]entity.Order, error)

	// ExportCSV renders all orders as a spreadsheet-friendly CSV document.
	ExportCSV(ctx context.Context) (string, error)
}
