package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrOrderNotFound is returned when no order exists for a payment session id.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for the fulfilled-order collection.
// Orders are append-only; the orchestrator uses FindByID as the idempotency
// guard before applying any side effects for a redelivered webhook event.
type OrderRepository interface {
	// Append adds one order to the collection.
	Append(ctx context.Context, order entity.Order) error

	// List retrieves all orders in insertion order.
	List(ctx context.Context) ([]entity.Order, error)

	// FindByID retrieves an order by payment session id. Fails with
	// ErrOrderNotFound when absent.
	FindByID(ctx context.Context, id string) (*entity.Order, error)
}
