package jsonfile

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type orderRepository struct {
	store *store
}

// NewOrderRepository creates a file-backed order repository under the
// configured data directory.
func NewOrderRepository(cfg *config.Config) repository.OrderRepository {
	return &orderRepository{store: newStore(cfg.Data.Dir, "orders.json")}
}

func (r *orderRepository) Append(ctx context.Context, order entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	orders, err := r.listLocked()
	if err != nil {
		return err
	}

	return r.store.save(append(orders, order))
}

func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.listLocked()
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	orders, err := r.listLocked()
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}

	return nil, repository.ErrOrderNotFound
}

func (r *orderRepository) listLocked() ([]entity.Order, error) {
	orders := make([]entity.Order, 0)
	if err := r.store.load(&orders); err != nil {
		return nil, err
	}

	return orders, nil
}
