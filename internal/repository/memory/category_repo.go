package memory

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

type CategoryRepo struct {
	store *Store
}

func NewCategoryRepo(store *Store) *CategoryRepo {
	return &CategoryRepo{store: store}
}

func (r *CategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, c)
	}
	sortCategories(categories)

	return categories, nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, e.NotFound(e.MsgCategoryNotFound)
	}

	return &c, nil
}

func (r *CategoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.categories[id]
	return ok, nil
}

func (r *CategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.nameTaken(category.Name, 0) {
		return nil, e.DuplicateName()
	}

	r.store.nextCategoryID++
	now := r.store.now()
	created := domain.Category{
		ID:        r.store.nextCategoryID,
		Name:      category.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.categories[created.ID] = created

	return &created, nil
}

func (r *CategoryRepo) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.categories[category.ID]
	if !ok {
		return nil, e.NotFound(e.MsgCategoryNotFound)
	}
	if r.nameTaken(category.Name, category.ID) {
		return nil, e.DuplicateName()
	}

	current.Name = category.Name
	current.UpdatedAt = r.store.now()
	r.store.categories[current.ID] = current

	return &current, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[id]; !ok {
		return e.NotFound(e.MsgCategoryNotFound)
	}
	for _, p := range r.store.products {
		if p.CategoryID == id {
			return e.CategoryInUse()
		}
	}

	delete(r.store.categories, id)
	return nil
}

// nameTaken проверяет уникальность имени, пропуская категорию exceptID. Вызывается под блокировкой.
func (r *CategoryRepo) nameTaken(name string, exceptID int64) bool {
	for _, c := range r.store.categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}
