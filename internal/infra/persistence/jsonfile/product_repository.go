package jsonfile

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type productRepository struct {
	store *store
}

// NewProductRepository creates a file-backed catalog repository under the
// configured data directory.
func NewProductRepository(cfg *config.Config) repository.ProductRepository {
	return &productRepository{store: newStore(cfg.Data.Dir, "products.json")}
}

func (r *productRepository) List(ctx context.Context) ([]entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.listLocked()
}

func (r *productRepository) listLocked() ([]entity.Product, error) {
	products := make([]entity.Product, 0)
	if err := r.store.load(&products); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products, err := r.listLocked()
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}

	return nil, repository.ErrProductNotFound
}

func (r *productRepository) Create(ctx context.Context, product entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products, err := r.listLocked()
	if err != nil {
		return err
	}

	for i := range products {
		if products[i].ID == product.ID {
			return repository.ErrProductExists
		}
	}

	return r.store.save(append(products, product))
}

func (r *productRepository) Update(ctx context.Context, product entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products, err := r.listLocked()
	if err != nil {
		return err
	}

	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product

			return r.store.save(products)
		}
	}

	return repository.ErrProductNotFound
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products, err := r.listLocked()
	if err != nil {
		return err
	}

	next := products[:0]
	for i := range products {
		if products[i].ID != id {
			next = append(next, products[i])
		}
	}

	return r.store.save(next)
}

func (r *productRepository) ReplaceAll(ctx context.Context, products []entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.save(products)
}
