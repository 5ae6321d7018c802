package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// Store — хранилище каталога в памяти. Повторяет ограничения схемы PostgreSQL:
// уникальность имени категории и внешний ключ товара на категорию.
type Store struct {
	mu             sync.RWMutex
	categories     map[int64]domain.Category
	products       map[int64]domain.Product
	nextCategoryID int64
	nextProductID  int64
	now            func() time.Time
}

func NewStore() *Store {
	return &Store{
		categories: make(map[int64]domain.Category),
		products:   make(map[int64]domain.Product),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// withCategory дополняет товар ссылкой на категорию. Вызывается под блокировкой.
func (s *Store) withCategory(p domain.Product) domain.Product {
	if c, ok := s.categories[p.CategoryID]; ok {
		p.Category = &domain.CategoryRef{ID: c.ID, Name: c.Name}
	}
	return p
}

func sortCategories(categories []domain.Category) {
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name == categories[j].Name {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Name < categories[j].Name
	})
}

func sortProducts(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name == products[j].Name {
			return products[i].ID < products[j].ID
		}
		return products[i].Name < products[j].Name
	})
}
