package pgdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// selectProducts читает товары вместе с именем категории.
const selectProducts = `
	SELECT
		p.id, p.name, p.description, p.price::text, p.stock, p.category_id,
		c.name AS category_name, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return p.query(ctx, selectProducts+` ORDER BY p.name, p.id`)
}

func (p *ProductRepo) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return p.query(ctx, selectProducts+` WHERE p.category_id = $1 ORDER BY p.name, p.id`, categoryID)
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	model, err := scanProduct(q.QueryRow(ctx, selectProducts+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.NotFound(e.MsgProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	product, err := p.conv.ToEntity(model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	return product, nil
}

func (p *ProductRepo) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	var count int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	return count, nil
}

// Create вставляет товар и возвращает его идентификатор.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (int64, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	query := `
		INSERT INTO products (name, description, price, stock, category_id)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING id;
	`

	var id int64
	err := q.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price.StringFixed(domain.PriceScale),
		product.Stock,
		product.CategoryID,
	).Scan(&id)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), productWriteError(err))
	}

	return id, nil
}

// Update меняет только переданные поля товара и обновляет updated_at.
func (p *ProductRepo) Update(ctx context.Context, id int64, patch domain.ProductPatch) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	sets, args := buildProductPatch(patch)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), productWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return e.NotFound(e.MsgProductNotFound)
	}

	return nil
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	q := tr.QuerierFromCtx(ctx, p.pool)

	tag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}
	if tag.RowsAffected() == 0 {
		return e.NotFound(e.MsgProductNotFound)
	}

	return nil
}

func (p *ProductRepo) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	q := tr.QuerierFromCtx(ctx, p.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
		}
		models = append(models, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	products, err := p.conv.ToArrEntity(models)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Storage(err))
	}

	return products, nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price, &model.Stock, &model.CategoryID,
		&model.CategoryName, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// buildProductPatch собирает SET-часть запроса из непустых полей патча.
func buildProductPatch(patch domain.ProductPatch) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if patch.Name != nil {
		add("name = $%d", *patch.Name)
	}
	if patch.Description != nil {
		add("description = $%d", *patch.Description)
	}
	if patch.Price != nil {
		add("price = $%d::numeric", patch.Price.StringFixed(domain.PriceScale))
	}
	if patch.Stock != nil {
		add("stock = $%d", *patch.Stock)
	}
	if patch.CategoryID != nil {
		add("category_id = $%d", *patch.CategoryID)
	}
	sets = append(sets, "updated_at = now()")

	return sets, args
}
