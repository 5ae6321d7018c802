package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// OutboxRepo — outbox в памяти. События отдаются воркеру в порядке записи.
type OutboxRepo struct {
	mu     sync.Mutex
	events []*usecase.OutboxEvent
	nextID int64
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{}
}

func (r *OutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *event
	stored.ID = r.nextID
	stored.Status = usecase.Pending
	stored.CreatedAt = time.Now().UTC()
	r.events = append(r.events, &stored)

	out := stored
	return &out, nil
}

func (r *OutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var batch []*usecase.OutboxEvent
	for _, ev := range r.events {
		if len(batch) >= limit {
			break
		}
		if ev.Status != usecase.Pending {
			continue
		}
		ev.Status = usecase.Processing
		out := *ev
		batch = append(batch, &out)
	}

	return batch, nil
}

func (r *OutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	return r.setStatus(id, usecase.Processed)
}

func (r *OutboxRepo) ReleaseProcessing(_ context.Context, id int64) error {
	return r.setStatus(id, usecase.Pending)
}

// Events возвращает копию всех записанных событий.
func (r *OutboxRepo) Events() []usecase.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]usecase.OutboxEvent, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, *ev)
	}
	return out
}

func (r *OutboxRepo) setStatus(id int64, status usecase.OutboxStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range r.events {
		if ev.ID == id {
			ev.Status = status
			if status == usecase.Processed {
				now := time.Now().UTC()
				ev.ProcessedAt = &now
			}
			return nil
		}
	}

	return e.NotFound("outbox event not found")
}
