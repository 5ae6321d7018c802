package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
)

const productEntity = "Product"

// ProductUseCase реализует бизнес-логику управления товарами.
// Проверка категории и запись товара выполняются в одной транзакции, внешний ключ в БД остаётся основной защитой.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	outbox       OutboxWriter
	txManager    TxManager
	validate     *validator.Validate
	logger       logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	outbox OutboxWriter,
	txManager TxManager,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		outbox:       outbox,
		txManager:    txManager,
		validate:     newValidator(),
		logger:       logger,
	}
}

// ListProducts возвращает все товары с категориями, отсортированные по имени.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, p.fail(op, err)
	}

	return products, nil
}

// GetProduct возвращает товар с категорией по идентификатору.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, p.fail(op, err)
	}

	return product, nil
}

// CreateProduct создаёт товар в существующей категории и возвращает его в том виде, в каком он сохранён.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	var created *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		if req.CategoryID != nil {
			if err := p.ensureCategory(ctx, *req.CategoryID); err != nil {
				return err
			}
		}

		req.Name = normalizeName(req.Name)
		if err := validateStruct(p.validate, productEntity, req); err != nil {
			return err
		}
		req.Price = normalizePrice(req.Price)

		stock := 0
		if req.Stock != nil {
			stock = *req.Stock
		}

		id, err := p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Description, *req.Price, stock, *req.CategoryID))
		if err != nil {
			return err
		}

		created, err = p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		return recordEvent(ctx, p.outbox, domain.NewProductEvent(domain.ProductCreated, created))
	})
	if err != nil {
		return nil, p.fail(op, err)
	}

	p.logger.Infof("product created: id=%d name=%q category_id=%d", created.ID, created.Name, created.CategoryID)
	return created, nil
}

// UpdateProduct частично обновляет товар. Категория проверяется, только если она передана.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	var updated *domain.Product
	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := p.productRepo.GetByID(ctx, id); err != nil {
			return err
		}

		if req.CategoryID != nil {
			if err := p.ensureCategory(ctx, *req.CategoryID); err != nil {
				return err
			}
		}

		if req.Name != nil {
			name := normalizeName(*req.Name)
			req.Name = &name
		}
		if err := validateStruct(p.validate, productEntity, req); err != nil {
			return err
		}
		req.Price = normalizePrice(req.Price)

		patch := req.toPatch()
		if !patch.IsEmpty() {
			if err := p.productRepo.Update(ctx, id, patch); err != nil {
				return err
			}
		}

		var err error
		updated, err = p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			return nil
		}

		return recordEvent(ctx, p.outbox, domain.NewProductEvent(domain.ProductUpdated, updated))
	})
	if err != nil {
		return nil, p.fail(op, err)
	}

	p.logger.Infof("product updated: id=%d", updated.ID)
	return updated, nil
}

// DeleteProduct удаляет товар.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		product, err := p.productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := p.productRepo.Delete(ctx, id); err != nil {
			return err
		}

		return recordEvent(ctx, p.outbox, domain.NewProductEvent(domain.ProductDeleted, product))
	})
	if err != nil {
		return p.fail(op, err)
	}

	p.logger.Infof("product deleted: id=%d", id)
	return nil
}

// GetProductsByCategory возвращает товары категории. Несуществующая категория — ошибка e.KindNotFound.
func (p *ProductUseCase) GetProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	const op = "ProductUseCase.GetProductsByCategory"

	exists, err := p.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return nil, p.fail(op, err)
	}
	if !exists {
		return nil, p.fail(op, e.NotFound(e.MsgCategoryNotFound))
	}

	products, err := p.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, p.fail(op, err)
	}

	return products, nil
}

// ensureCategory проверяет, что категория существует.
func (p *ProductUseCase) ensureCategory(ctx context.Context, categoryID int64) error {
	exists, err := p.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return e.CategoryNotFound()
	}

	return nil
}

func (p *ProductUseCase) fail(op string, err error) error {
	return logFailure(p.logger, op, err)
}
