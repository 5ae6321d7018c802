package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductPatch_ApplyOnlyChangesGivenFields(t *testing.T) {
	desc := "Gaming laptop"
	product := *NewProduct("Laptop", &desc, decimal.NewFromInt(1000), 10, 1)
	price := decimal.NewFromInt(900)

	patched := ProductPatch{Price: &price}.Apply(product)

	assert.Equal(t, "Laptop", patched.Name)
	assert.Equal(t, 10, patched.Stock)
	assert.Equal(t, int64(1), patched.CategoryID)
	assert.Equal(t, &desc, patched.Description)
	assert.True(t, patched.Price.Equal(price))
	assert.True(t, product.Price.Equal(decimal.NewFromInt(1000)))
}

func TestProductPatch_IsEmpty(t *testing.T) {
	stock := 0

	assert.True(t, ProductPatch{}.IsEmpty())
	assert.False(t, ProductPatch{Stock: &stock}.IsEmpty())
}

func TestNewProductEvent_FormatsPrice(t *testing.T) {
	p := NewProduct("Mouse", nil, decimal.NewFromInt(20), 50, 3)
	p.ID = 7

	ev := NewProductEvent(ProductCreated, p)

	assert.Equal(t, AggregateProduct, ev.AggregateType)
	assert.Equal(t, int64(7), ev.AggregateID)
	assert.Equal(t, "20.00", ev.Data["price"])
	assert.NotContains(t, ev.Data, "description")
}
