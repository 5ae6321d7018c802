package memory

import (
	"context"
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, repo *CategoryRepo, name string) *domain.Category {
	t.Helper()
	c, err := repo.Create(context.Background(), domain.NewCategory(name))
	require.NoError(t, err)
	return c
}

func TestCategoryRepo_ListSortedByName(t *testing.T) {
	repo := NewCategoryRepo(NewStore())
	for _, name := range []string{"Electronics", "Books", "Clothing"} {
		seedCategory(t, repo, name)
	}

	categories, err := repo.List(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Books", "Clothing", "Electronics"}, names)
}

func TestCategoryRepo_DuplicateName(t *testing.T) {
	repo := NewCategoryRepo(NewStore())
	seedCategory(t, repo, "Books")
	other := seedCategory(t, repo, "Music")

	_, err := repo.Create(context.Background(), domain.NewCategory("Books"))
	assert.True(t, e.IsKind(err, e.KindDuplicateName))

	other.Name = "Books"
	_, err = repo.Update(context.Background(), other)
	assert.True(t, e.IsKind(err, e.KindDuplicateName))
}

func TestCategoryRepo_UpdateKeepsOwnName(t *testing.T) {
	repo := NewCategoryRepo(NewStore())
	c := seedCategory(t, repo, "Books")

	updated, err := repo.Update(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "Books", updated.Name)
}

func TestCategoryRepo_DeleteReferenced(t *testing.T) {
	store := NewStore()
	categories := NewCategoryRepo(store)
	products := NewProductRepo(store)
	c := seedCategory(t, categories, "Books")

	_, err := products.Create(context.Background(), domain.NewProduct("Dune", nil, decimal.NewFromInt(10), 1, c.ID))
	require.NoError(t, err)

	err = categories.Delete(context.Background(), c.ID)
	assert.True(t, e.IsKind(err, e.KindCategoryInUse))
}

func TestProductRepo_JoinsCategory(t *testing.T) {
	store := NewStore()
	categories := NewCategoryRepo(store)
	products := NewProductRepo(store)
	c := seedCategory(t, categories, "Books")

	id, err := products.Create(context.Background(), domain.NewProduct("Dune", nil, decimal.NewFromInt(10), 1, c.ID))
	require.NoError(t, err)

	p, err := products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.Equal(t, domain.CategoryRef{ID: c.ID, Name: "Books"}, *p.Category)
}

func TestProductRepo_UnknownCategory(t *testing.T) {
	products := NewProductRepo(NewStore())

	_, err := products.Create(context.Background(), domain.NewProduct("Dune", nil, decimal.NewFromInt(10), 1, 999))

	assert.True(t, e.IsKind(err, e.KindCategoryNotFound))
}

func TestProductRepo_Missing(t *testing.T) {
	products := NewProductRepo(NewStore())

	_, err := products.GetByID(context.Background(), 1)
	assert.True(t, e.IsKind(err, e.KindNotFound))
	assert.True(t, e.IsKind(products.Delete(context.Background(), 1), e.KindNotFound))
}

func TestOutboxRepo_Lifecycle(t *testing.T) {
	repo := NewOutboxRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &usecase.OutboxEvent{EventType: domain.CategoryCreated})
		require.NoError(t, err)
	}

	batch, err := repo.GetAndMarkAsProcessing(ctx, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, int64(1), batch[0].ID)

	require.NoError(t, repo.MarkAsProcessed(ctx, batch[0].ID))
	require.NoError(t, repo.ReleaseProcessing(ctx, batch[1].ID))

	next, err := repo.GetAndMarkAsProcessing(ctx, 10)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, int64(2), next[0].ID)
	assert.Equal(t, int64(3), next[1].ID)

	events := repo.Events()
	assert.Equal(t, usecase.Processed, events[0].Status)
	assert.NotNil(t, events[0].ProcessedAt)
}
