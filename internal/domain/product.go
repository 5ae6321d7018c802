package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale — количество знаков после запятой у цены (NUMERIC(10,2)).
const PriceScale = 2

// MaxPrice — максимальная цена, которую вмещает NUMERIC(10,2).
var MaxPrice = decimal.RequireFromString("99999999.99")

// Product описывает товар. Товар всегда принадлежит ровно одной категории.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int64
	Category    *CategoryRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProduct(name string, description *string, price decimal.Decimal, stock int, categoryID int64) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
	}
}

// ProductPatch — частичное обновление товара. Nil-поля не изменяются.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	CategoryID  *int64
}

// IsEmpty сообщает, что патч не меняет ни одного поля.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil && p.CategoryID == nil
}

// Apply возвращает копию товара с применёнными изменениями.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.CategoryID != nil {
		product.CategoryID = *p.CategoryID
	}

	return product
}
