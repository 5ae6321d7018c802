package domain

import "time"

const (
	NameMinLength = 2
	NameMaxLength = 150
)

// Category описывает категорию товаров. Имя уникально среди всех категорий.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCategory(name string) *Category {
	return &Category{
		Name: name,
	}
}

// CategoryRef — денормализованное представление категории внутри товара.
type CategoryRef struct {
	ID   int64
	Name string
}
