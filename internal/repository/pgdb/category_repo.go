package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const categoryColumns = `id, name, created_at, updated_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
// Запросы выполняются в транзакции из контекста, если она есть.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// List возвращает все категории, отсортированные по имени.
func (c *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	rows, err := q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}
	defer rows.Close()

	var models []converter.CategoryModel
	for rows.Next() {
		var model converter.CategoryModel
		if err := rows.Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	return c.conv.ToArrEntity(models), nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	var model converter.CategoryModel
	err := q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id).
		Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.NotFound(e.MsgCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	return c.conv.ToEntity(&model), nil
}

func (c *CategoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	return exists, nil
}

// Create создаёт категорию. Повтор имени возвращает e.KindDuplicateName.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	query := `
		INSERT INTO categories (name) VALUES ($1)
		RETURNING ` + categoryColumns

	var model converter.CategoryModel
	if err := q.QueryRow(ctx, query, category.Name).
		Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), categoryWriteError(err))
	}

	return c.conv.ToEntity(&model), nil
}

// Update переименовывает категорию и обновляет updated_at.
func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	q := tr.QuerierFromCtx(ctx, c.pool)

	query := `
		UPDATE categories SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns

	var model converter.CategoryModel
	if err := q.QueryRow(ctx, query, category.ID, category.Name).
		Scan(&model.ID, &model.Name, &model.CreatedAt, &model.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.NotFound(e.MsgCategoryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), categoryWriteError(err))
	}

	return c.conv.ToEntity(&model), nil
}

// Delete удаляет категорию. Внешний ключ товаров (ON DELETE RESTRICT) превращается в e.KindCategoryInUse.
func (c *CategoryRepo) Delete(ctx context.Context, id int64) error {
	q := tr.QuerierFromCtx(ctx, c.pool)

	tag, err := q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), categoryWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return e.NotFound(e.MsgCategoryNotFound)
	}

	return nil
}
