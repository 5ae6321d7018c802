package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const notifyWaitTimeout = 30 * time.Second

// OutboxWorker переносит события из outbox в Kafka. Новые события приходят через LISTEN/NOTIFY,
// раз в notifyWaitTimeout outbox проверяется и без уведомления.
type OutboxWorker struct {
	repo       usecase.OutboxRepository
	logger     logger.Logger
	producer   usecase.MessageProducer
	batchLimit int
	dbConnStr  string
	channel    string
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	batchLimit int,
	dbConnStr string,
	channel string,
) *OutboxWorker {
	if batchLimit <= 0 {
		batchLimit = 10
	}

	return &OutboxWorker{
		repo:       repo,
		logger:     logger,
		producer:   producer,
		batchLimit: batchLimit,
		dbConnStr:  dbConnStr,
		channel:    channel,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Infof("draining pending outbox events on startup")
		w.drain(ctx)
		w.listen(ctx)
	}()
}

// Stop останавливает воркер и ждёт завершения текущей пачки.
func (w *OutboxWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *OutboxWorker) listen(ctx context.Context) {
	backoff := jitter.NewBackoff(time.Second, 30*time.Second)

	for ctx.Err() == nil {
		conn, err := w.subscribe(ctx)
		if err != nil {
			delay := backoff.Next()
			w.logger.Warnf("outbox LISTEN failed, retrying in %s: %v", delay, err)
			if !sleep(ctx, delay) {
				return
			}
			continue
		}
		backoff.Reset()

		// События, записанные пока не было подписки, не потеряются.
		w.drain(ctx)
		err = w.wait(ctx, conn)
		_ = conn.Close(context.Background())

		if err != nil && ctx.Err() == nil {
			w.logger.Warnf("outbox notification connection lost: %v", err)
		}
	}
}

func (w *OutboxWorker) subscribe(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return nil, e.Wrap("failed to connect for LISTEN", err)
	}

	if _, err := conn.Exec(ctx, w.listenQuery()); err != nil {
		_ = conn.Close(context.Background())
		return nil, e.Wrap("failed to LISTEN", err)
	}

	w.logger.Infof("subscribed to %q channel", w.channel)
	return conn, nil
}

// listenQuery экранирует имя канала как идентификатор.
func (w *OutboxWorker) listenQuery() string {
	return "LISTEN " + pgx.Identifier{w.channel}.Sanitize()
}

// wait обрабатывает уведомления, пока соединение живо.
func (w *OutboxWorker) wait(ctx context.Context, conn *pgx.Conn) error {
	for {
		waitCtx, cancel := context.WithTimeout(ctx, notifyWaitTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, context.DeadlineExceeded):
			w.drain(ctx)
			continue
		case err != nil:
			return err
		}

		if notif.Channel == w.channel {
			w.logger.Debugf("received outbox notification, draining outbox events")
			w.drain(ctx)
		}
	}
}

// drain публикует пачки, пока outbox не опустеет или пачка не упадёт целиком.
func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch возвращает true, если стоит запросить следующую пачку.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.batchLimit)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	published := 0
	for _, event := range events {
		if err := w.producer.Publish(ctx, event); err != nil {
			w.logger.Warnf("publish event %s (%s) failed: %v", event.EventID, event.EventType, err)
			if err := w.repo.ReleaseProcessing(context.WithoutCancel(ctx), event.ID); err != nil {
				w.logger.Errorf(err, "release event %s failed", event.EventID)
			}
			continue
		}

		published++
		if err := w.repo.MarkAsProcessed(context.WithoutCancel(ctx), event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	if published == 0 {
		return false, errors.New("no events of the batch were published")
	}

	return len(events) == w.batchLimit, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
