package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// CategoryRepository — хранилище категорий. Отсутствие записи сообщается ошибкой вида e.KindNotFound,
// нарушение уникальности имени — e.KindDuplicateName, ссылки товаров при удалении — e.KindCategoryInUse.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// ProductRepository — хранилище товаров. Чтение всегда возвращает товар вместе с категорией.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	Create(ctx context.Context, product *domain.Product) (int64, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) error
	Delete(ctx context.Context, id int64) error
}

// OutboxWriter сохраняет событие каталога в outbox в рамках текущей транзакции.
type OutboxWriter interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
}

// OutboxRepository — полный интерфейс outbox, которым пользуется фоновый воркер.
type OutboxRepository interface {
	OutboxWriter
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReleaseProcessing(ctx context.Context, id int64) error
}

// TxManager выполняет функцию в одной транзакции хранилища.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MessageProducer публикует события outbox во внешний брокер.
type MessageProducer interface {
	Publish(ctx context.Context, event *OutboxEvent) error
}

// IdempotencyRepository хранит ответы на POST-запросы с заголовком Idempotency-Key.
// Get возвращает nil без ошибки, если ответа нет.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotentResponse, error)
	Lock(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, resp *IdempotentResponse) error
	Unlock(ctx context.Context, key string) error
}
