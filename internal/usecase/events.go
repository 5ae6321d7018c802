package usecase

import (
	"context"
	"encoding/json"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/google/uuid"
)

// NopOutbox отбрасывает события. Используется, когда публикация событий отключена.
type NopOutbox struct{}

func (NopOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	return event, nil
}

// NewOutboxEvent готовит событие каталога к записи в outbox.
func NewOutboxEvent(event *domain.CatalogEvent) (*OutboxEvent, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:       uuid.NewString(),
		EventType:     event.Type,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       payload,
		Status:        Pending,
	}, nil
}

// recordEvent записывает событие в outbox. Вызывается внутри транзакции записи сущности.
func recordEvent(ctx context.Context, outbox OutboxWriter, event *domain.CatalogEvent) error {
	const op = "usecase.recordEvent"

	outboxEvent, err := NewOutboxEvent(event)
	if err != nil {
		return e.Wrap(op, err)
	}

	if _, err := outbox.Create(ctx, outboxEvent); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
