package usecase_test

import (
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/repository/memory"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/shopspring/decimal"
)

type fixture struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	outbox     *memory.OutboxRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	categoryRepo := memory.NewCategoryRepo(store)
	productRepo := memory.NewProductRepo(store)
	outbox := memory.NewOutboxRepo()
	log := logger.NewNopLogger()

	return &fixture{
		categories: usecase.NewCategoryUC(categoryRepo, productRepo, outbox, tr.NopManager{}, log),
		products:   usecase.NewProductUC(productRepo, categoryRepo, outbox, tr.NopManager{}, log),
		outbox:     outbox,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func price(s string) *decimal.Decimal {
	return ptr(decimal.RequireFromString(s))
}
