package usecase

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// CATEGORY USECASE

// CreateCategoryReq — запрос на создание категории.
type CreateCategoryReq struct {
	Name string `validate:"required,min=2,max=150"`
}

// UpdateCategoryReq — запрос на переименование категории.
type UpdateCategoryReq struct {
	Name string `validate:"required,min=2,max=150"`
}

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара. Nil означает, что поле не передано.
type CreateProductReq struct {
	Name        string           `validate:"required,min=2,max=150"`
	Description *string
	Price       *decimal.Decimal `validate:"required,gte=0,lte=99999999.99"`
	Stock       *int             `validate:"omitempty,gte=0,lte=2147483647"`
	CategoryID  *int64           `validate:"required"`
}

// UpdateProductReq — частичное обновление товара. Изменяются только переданные поля.
type UpdateProductReq struct {
	Name        *string          `validate:"omitempty,min=2,max=150"`
	Description *string
	Price       *decimal.Decimal `validate:"omitempty,gte=0,lte=99999999.99"`
	Stock       *int             `validate:"omitempty,gte=0,lte=2147483647"`
	CategoryID  *int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// OutboxEvent — событие каталога, ожидающее публикации в брокер.
type OutboxEvent struct {
	ID            int64
	EventID       string
	EventType     domain.EventType
	AggregateType domain.AggregateType
	AggregateID   int64
	Payload       []byte // JSON с данными сущности
	Status        OutboxStatus
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// MAPPERS

func NewCreateCategoryReq(name string) *CreateCategoryReq {
	return &CreateCategoryReq{Name: name}
}

func NewUpdateCategoryReq(name string) *UpdateCategoryReq {
	return &UpdateCategoryReq{Name: name}
}

func (r *UpdateProductReq) toPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}
}

// IDEMPOTENCY

// IdempotentResponse — сохранённый ответ, который повторяется для того же Idempotency-Key.
type IdempotentResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
