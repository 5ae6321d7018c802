package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
)

const categoryEntity = "Category"

// CategoryUseCase реализует бизнес-логику управления категориями.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	outbox       OutboxWriter
	txManager    TxManager
	validate     *validator.Validate
	logger       logger.Logger
}

func NewCategoryUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	outbox OutboxWriter,
	txManager TxManager,
	logger logger.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		outbox:       outbox,
		txManager:    txManager,
		validate:     newValidator(),
		logger:       logger,
	}
}

// ListCategories возвращает все категории, отсортированные по имени.
func (c *CategoryUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "CategoryUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, c.fail(op, err)
	}

	return categories, nil
}

// GetCategory возвращает категорию по идентификатору.
func (c *CategoryUseCase) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CategoryUseCase.GetCategory"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, c.fail(op, err)
	}

	return category, nil
}

// CreateCategory создаёт категорию с уникальным именем.
func (c *CategoryUseCase) CreateCategory(ctx context.Context, req *CreateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.CreateCategory"

	req.Name = normalizeName(req.Name)
	if err := validateStruct(c.validate, categoryEntity, req); err != nil {
		return nil, c.fail(op, err)
	}

	var created *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.categoryRepo.Create(ctx, domain.NewCategory(req.Name))
		if err != nil {
			return err
		}

		return recordEvent(ctx, c.outbox, domain.NewCategoryEvent(domain.CategoryCreated, created))
	})
	if err != nil {
		return nil, c.fail(op, err)
	}

	c.logger.Infof("category created: id=%d name=%q", created.ID, created.Name)
	return created, nil
}

// UpdateCategory переименовывает существующую категорию.
func (c *CategoryUseCase) UpdateCategory(ctx context.Context, id int64, req *UpdateCategoryReq) (*domain.Category, error) {
	const op = "CategoryUseCase.UpdateCategory"

	var updated *domain.Category
	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		req.Name = normalizeName(req.Name)
		if err := validateStruct(c.validate, categoryEntity, req); err != nil {
			return err
		}

		category.Name = req.Name
		updated, err = c.categoryRepo.Update(ctx, category)
		if err != nil {
			return err
		}

		return recordEvent(ctx, c.outbox, domain.NewCategoryEvent(domain.CategoryUpdated, updated))
	})
	if err != nil {
		return nil, c.fail(op, err)
	}

	c.logger.Infof("category updated: id=%d name=%q", updated.ID, updated.Name)
	return updated, nil
}

// DeleteCategory удаляет категорию. Категорию, на которую ссылается хотя бы один товар, удалить нельзя.
func (c *CategoryUseCase) DeleteCategory(ctx context.Context, id int64) error {
	const op = "CategoryUseCase.DeleteCategory"

	err := c.txManager.Do(ctx, func(ctx context.Context) error {
		category, err := c.categoryRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		count, err := c.productRepo.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return e.CategoryInUse()
		}

		if err := c.categoryRepo.Delete(ctx, id); err != nil {
			return err
		}

		return recordEvent(ctx, c.outbox, domain.NewCategoryEvent(domain.CategoryDeleted, category))
	})
	if err != nil {
		return c.fail(op, err)
	}

	c.logger.Infof("category deleted: id=%d", id)
	return nil
}

// fail логирует ошибку с уровнем, зависящим от её вида, и оборачивает её.
func (c *CategoryUseCase) fail(op string, err error) error {
	return logFailure(c.logger, op, err)
}

func logFailure(log logger.Logger, op string, err error) error {
	err = classify(err)
	if e.KindOf(err) == e.KindStorage {
		log.Errorf(err, "%s failed", op)
	} else {
		log.Warnf("%s: %v", op, err)
	}

	return e.Wrap(op, err)
}
