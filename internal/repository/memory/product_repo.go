package memory

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type ProductRepo struct {
	store *Store
}

func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

func (r *ProductRepo) List(_ context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		products = append(products, r.store.withCategory(p))
	}
	sortProducts(products)

	return products, nil
}

func (r *ProductRepo) ListByCategory(_ context.Context, categoryID int64) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := make([]domain.Product, 0)
	for _, p := range r.store.products {
		if p.CategoryID == categoryID {
			products = append(products, r.store.withCategory(p))
		}
	}
	sortProducts(products)

	return products, nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.products[id]
	if !ok {
		return nil, e.NotFound(e.MsgProductNotFound)
	}
	p = r.store.withCategory(p)

	return &p, nil
}

func (r *ProductRepo) CountByCategory(_ context.Context, categoryID int64) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, p := range r.store.products {
		if p.CategoryID == categoryID {
			count++
		}
	}

	return count, nil
}

func (r *ProductRepo) Create(_ context.Context, product *domain.Product) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[product.CategoryID]; !ok {
		return 0, e.CategoryNotFound()
	}

	r.store.nextProductID++
	now := r.store.now()
	created := *product
	created.ID = r.store.nextProductID
	created.Category = nil
	created.CreatedAt = now
	created.UpdatedAt = now
	r.store.products[created.ID] = created

	return created.ID, nil
}

func (r *ProductRepo) Update(_ context.Context, id int64, patch domain.ProductPatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.products[id]
	if !ok {
		return e.NotFound(e.MsgProductNotFound)
	}
	if patch.CategoryID != nil {
		if _, ok := r.store.categories[*patch.CategoryID]; !ok {
			return e.CategoryNotFound()
		}
	}

	updated := patch.Apply(current)
	updated.UpdatedAt = r.store.now()
	r.store.products[id] = updated

	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.products[id]; !ok {
		return e.NotFound(e.MsgProductNotFound)
	}

	delete(r.store.products, id)
	return nil
}
