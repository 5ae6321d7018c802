package converter

import (
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToEntity(model *CategoryModel) *domain.Category
	ToArrEntity(models []CategoryModel) []domain.Category
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToEntity(model *ProductModel) (*domain.Product, error)
	ToArrEntity(models []ProductModel) ([]domain.Product, error)
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type CategoryConverterImpl struct{}

func NewCategoryConverterImpl() *CategoryConverterImpl {
	return &CategoryConverterImpl{}
}

func (CategoryConverterImpl) ToEntity(model *CategoryModel) *domain.Category {
	if model == nil {
		return nil
	}

	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (c CategoryConverterImpl) ToArrEntity(models []CategoryModel) []domain.Category {
	out := make([]domain.Category, 0, len(models))
	for i := range models {
		out = append(out, *c.ToEntity(&models[i]))
	}
	return out
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (ProductConverterImpl) ToEntity(model *ProductModel) (*domain.Product, error) {
	if model == nil {
		return nil, nil
	}

	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       price,
		Stock:       int(model.Stock),
		CategoryID:  model.CategoryID,
		Category: &domain.CategoryRef{
			ID:   model.CategoryID,
			Name: model.CategoryName,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}

func (p ProductConverterImpl) ToArrEntity(models []ProductModel) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(models))
	for i := range models {
		product, err := p.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *product)
	}
	return out, nil
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:            entity.ID,
		EventID:       entity.EventID,
		EventType:     string(entity.EventType),
		AggregateType: string(entity.AggregateType),
		AggregateID:   entity.AggregateID,
		Payload:       entity.Payload,
		Status:        string(entity.Status),
		CreatedAt:     entity.CreatedAt,
		ProcessedAt:   entity.ProcessedAt,
	}
}

func (OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:            model.ID,
		EventID:       model.EventID,
		EventType:     domain.EventType(model.EventType),
		AggregateType: domain.AggregateType(model.AggregateType),
		AggregateID:   model.AggregateID,
		Payload:       model.Payload,
		Status:        usecase.OutboxStatus(model.Status),
		CreatedAt:     model.CreatedAt,
		ProcessedAt:   model.ProcessedAt,
	}
}

func (o OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	out := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		out = append(out, o.ToEntity(m))
	}
	return out
}
