package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/memory"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

// flakyProducer отклоняет события с указанными идентификаторами сущностей.
type flakyProducer struct {
	mu        sync.Mutex
	failFor   map[int64]bool
	published []int64
}

func (f *flakyProducer) Publish(_ context.Context, event *usecase.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[event.AggregateID] {
		return errors.New("broker not available")
	}
	f.published = append(f.published, event.AggregateID)
	return nil
}

func newEvent(t *testing.T, aggregateID int64) *usecase.OutboxEvent {
	t.Helper()
	ev, err := usecase.NewOutboxEvent(domain.NewCategoryEvent(domain.CategoryCreated, &domain.Category{ID: aggregateID, Name: "Books"}))
	require.NoError(t, err)
	return ev
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := newProducer(writer, logger.NewNopLogger(), &cfg.KafkaCfg{Topic: "catalog.events"})

	event := newEvent(t, 42)
	event.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, headerEventType, msg.Headers[0].Key)
	assert.Equal(t, "category.created", string(msg.Headers[0].Value))

	var envelope structpb.Struct
	require.NoError(t, proto.Unmarshal(msg.Value, &envelope))
	got := envelope.AsMap()
	assert.Equal(t, event.EventID, got["event_id"])
	assert.Equal(t, "category", got["aggregate_type"])
	assert.Equal(t, float64(42), got["aggregate_id"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["occurred_at"])
	assert.Equal(t, map[string]any{"id": float64(42), "name": "Books"}, got["data"])
}

func TestProducer_PublishError(t *testing.T) {
	boom := errors.New("boom")
	p := newProducer(&fakeWriter{err: boom}, logger.NewNopLogger(), &cfg.KafkaCfg{})

	err := p.Publish(context.Background(), newEvent(t, 1))

	assert.ErrorIs(t, err, boom)
}

func TestEncodeEvent_BadPayload(t *testing.T) {
	_, err := EncodeEvent(&usecase.OutboxEvent{EventID: "x", Payload: []byte("{")})

	assert.Error(t, err)
}

func TestOutboxWorker_DrainPublishesAll(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepo()
	for id := int64(1); id <= 5; id++ {
		_, err := repo.Create(ctx, newEvent(t, id))
		require.NoError(t, err)
	}
	producer := &flakyProducer{}
	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, 2, "", pgdb.OutboxChannel)

	w.drain(ctx)

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, producer.published)
	for _, ev := range repo.Events() {
		assert.Equal(t, usecase.Processed, ev.Status)
	}
}

func TestOutboxWorker_ReleasesFailedEvents(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepo()
	for id := int64(1); id <= 3; id++ {
		_, err := repo.Create(ctx, newEvent(t, id))
		require.NoError(t, err)
	}
	producer := &flakyProducer{failFor: map[int64]bool{2: true}}
	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, 10, "", pgdb.OutboxChannel)

	hasMore, err := w.processBatch(ctx)
	require.NoError(t, err)
	assert.False(t, hasMore)

	events := repo.Events()
	assert.Equal(t, usecase.Processed, events[0].Status)
	assert.Equal(t, usecase.Pending, events[1].Status)
	assert.Equal(t, usecase.Processed, events[2].Status)
}

func TestOutboxWorker_WholeBatchFailed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepo()
	_, err := repo.Create(ctx, newEvent(t, 7))
	require.NoError(t, err)
	w := NewOutboxWorker(repo, logger.NewNopLogger(), &flakyProducer{failFor: map[int64]bool{7: true}}, 10, "", pgdb.OutboxChannel)

	_, err = w.processBatch(ctx)

	assert.Error(t, err)
	assert.Equal(t, usecase.Pending, repo.Events()[0].Status)
}

func TestOutboxWorker_ListensOnRepositoryChannel(t *testing.T) {
	w := NewOutboxWorker(memory.NewOutboxRepo(), logger.NewNopLogger(), &flakyProducer{}, 10, "", pgdb.OutboxChannel)

	assert.Equal(t, `LISTEN "`+pgdb.OutboxChannel+`"`, w.listenQuery())
}
