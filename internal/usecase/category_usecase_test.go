package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryUseCase_ListSortedByName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Electronics", "Books", "Clothing"} {
		_, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq(name))
		require.NoError(t, err)
	}

	categories, err := f.categories.ListCategories(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Books", "Clothing", "Electronics"}, names)
}

func TestCategoryUseCase_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		kind    e.Kind
		message string
	}{
		{name: "trimmed", input: "  Books  ", want: "Books"},
		{name: "boundary min", input: "TV", want: "TV"},
		{name: "boundary max", input: strings.Repeat("a", 150), want: strings.Repeat("a", 150)},
		{name: "empty", input: "", kind: e.KindValidation, message: "Category name cannot be empty"},
		{name: "whitespace", input: "   ", kind: e.KindValidation, message: "Category name cannot be empty"},
		{name: "too short", input: "A", kind: e.KindValidation, message: "Category name must be between 2 and 150 characters"},
		{name: "too long", input: strings.Repeat("a", 151), kind: e.KindValidation, message: "Category name must be between 2 and 150 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			got, err := f.categories.CreateCategory(context.Background(), usecase.NewCreateCategoryReq(tt.input))

			if tt.message != "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, e.KindOf(err))
				assert.Equal(t, tt.message, e.Message(err))
				assert.Empty(t, f.outbox.Events())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			assert.NotZero(t, got.ID)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestCategoryUseCase_CreateDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Books"))
	require.NoError(t, err)

	_, err = f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq(" Books "))

	assert.True(t, e.IsKind(err, e.KindDuplicateName))
	assert.Equal(t, e.MsgCategoryNameExists, e.Message(err))

	all, err := f.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, original.ID, all[0].ID)
	assert.Equal(t, "Books", all[0].Name)
	assert.Equal(t, original.UpdatedAt, all[0].UpdatedAt)
}

func TestCategoryUseCase_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Books"))
	require.NoError(t, err)

	got, err := f.categories.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = f.categories.GetCategory(ctx, 999)
	assert.True(t, e.IsKind(err, e.KindNotFound))
	assert.Equal(t, e.MsgCategoryNotFound, e.Message(err))
}

func TestCategoryUseCase_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	books, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Books"))
	require.NoError(t, err)
	_, err = f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Music"))
	require.NoError(t, err)

	t.Run("renames", func(t *testing.T) {
		got, err := f.categories.UpdateCategory(ctx, books.ID, usecase.NewUpdateCategoryReq(" Novels "))
		require.NoError(t, err)
		assert.Equal(t, "Novels", got.Name)
		assert.Equal(t, books.ID, got.ID)
	})

	t.Run("same name", func(t *testing.T) {
		got, err := f.categories.UpdateCategory(ctx, books.ID, usecase.NewUpdateCategoryReq("Novels"))
		require.NoError(t, err)
		assert.Equal(t, "Novels", got.Name)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := f.categories.UpdateCategory(ctx, books.ID, usecase.NewUpdateCategoryReq("Music"))
		assert.True(t, e.IsKind(err, e.KindDuplicateName))
	})

	t.Run("missing wins over invalid name", func(t *testing.T) {
		_, err := f.categories.UpdateCategory(ctx, 999, usecase.NewUpdateCategoryReq(""))
		assert.True(t, e.IsKind(err, e.KindNotFound))
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := f.categories.UpdateCategory(ctx, books.ID, usecase.NewUpdateCategoryReq("X"))
		assert.True(t, e.IsKind(err, e.KindValidation))
	})
}

func TestCategoryUseCase_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Empty"))
	require.NoError(t, err)
	used, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Used"))
	require.NoError(t, err)
	_, err = f.products.CreateProduct(ctx, &usecase.CreateProductReq{
		Name:       "Laptop",
		Price:      price("1000"),
		CategoryID: ptr(used.ID),
	})
	require.NoError(t, err)

	require.NoError(t, f.categories.DeleteCategory(ctx, empty.ID))
	_, err = f.categories.GetCategory(ctx, empty.ID)
	assert.True(t, e.IsKind(err, e.KindNotFound))

	err = f.categories.DeleteCategory(ctx, used.ID)
	assert.True(t, e.IsKind(err, e.KindCategoryInUse))
	_, err = f.categories.GetCategory(ctx, used.ID)
	assert.NoError(t, err)

	err = f.categories.DeleteCategory(ctx, 999)
	assert.True(t, e.IsKind(err, e.KindNotFound))
}

func TestCategoryUseCase_RecordsEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.categories.CreateCategory(ctx, usecase.NewCreateCategoryReq("Books"))
	require.NoError(t, err)
	_, err = f.categories.UpdateCategory(ctx, c.ID, usecase.NewUpdateCategoryReq("Novels"))
	require.NoError(t, err)
	require.NoError(t, f.categories.DeleteCategory(ctx, c.ID))

	events := f.outbox.Events()
	require.Len(t, events, 3)

	types := []domain.EventType{events[0].EventType, events[1].EventType, events[2].EventType}
	assert.Equal(t, []domain.EventType{domain.CategoryCreated, domain.CategoryUpdated, domain.CategoryDeleted}, types)
	for _, ev := range events {
		assert.Equal(t, domain.AggregateCategory, ev.AggregateType)
		assert.Equal(t, c.ID, ev.AggregateID)
		assert.NotEmpty(t, ev.EventID)
		assert.Equal(t, usecase.Pending, ev.Status)
	}
	assert.JSONEq(t, `{"id":1,"name":"Novels"}`, string(events[1].Payload))
}
