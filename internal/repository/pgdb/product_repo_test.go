package pgdb

import (
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildProductPatch(t *testing.T) {
	name := "Laptop Pro"
	price := decimal.RequireFromString("899.9")
	stock := 0

	sets, args := buildProductPatch(domain.ProductPatch{Name: &name, Price: &price, Stock: &stock})

	assert.Equal(t, []string{
		"name = $1",
		"price = $2::numeric",
		"stock = $3",
		"updated_at = now()",
	}, sets)
	assert.Equal(t, []any{"Laptop Pro", "899.90", 0}, args)
}

func TestBuildProductPatch_OnlyTimestamp(t *testing.T) {
	sets, args := buildProductPatch(domain.ProductPatch{})

	assert.Equal(t, []string{"updated_at = now()"}, sets)
	assert.Empty(t, args)
}
