package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/clients"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "idempotency:"
	lockTTL   = 30 * time.Second
)

// IdempotencyRepo хранит ответы на повторяемые запросы в Redis с TTL из конфигурации.
type IdempotencyRepo struct {
	client *clients.RedisClient
	conv   converter.IdempotentResponseConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewIdempotencyRepo(client *clients.RedisClient, conv converter.IdempotentResponseConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *IdempotencyRepo {
	return &IdempotencyRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// Get возвращает сохранённый ответ или nil, если ключ не встречался.
func (i *IdempotencyRepo) Get(ctx context.Context, key string) (*usecase.IdempotentResponse, error) {
	data, err := i.client.Client.Get(ctx, i.responseKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.IdempotentResponseRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		i.logger.Warnf("dropping corrupted idempotent response %q: %v", key, err)
		if err := i.client.Client.Del(ctx, i.responseKey(key)).Err(); err != nil {
			i.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return i.conv.ToUseCase(&model), nil
}

// Lock помечает ключ как обрабатываемый. false означает, что запрос с этим ключом уже выполняется.
func (i *IdempotencyRepo) Lock(ctx context.Context, key string) (bool, error) {
	ok, err := i.client.Client.SetNX(ctx, i.lockKey(key), 1, lockTTL).Result()
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return ok, nil
}

// Save сохраняет ответ и снимает блокировку одной транзакцией.
func (i *IdempotencyRepo) Save(ctx context.Context, key string, resp *usecase.IdempotentResponse) error {
	data, err := json.Marshal(i.conv.ToRedisModel(resp))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	pipeline := i.client.Client.TxPipeline()
	pipeline.Set(ctx, i.responseKey(key), data, i.cfg.IdempotencyTTL)
	pipeline.Del(ctx, i.lockKey(key))
	if _, err := pipeline.Exec(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Unlock снимает блокировку без сохранения ответа, чтобы клиент мог повторить запрос.
func (i *IdempotencyRepo) Unlock(ctx context.Context, key string) error {
	if err := i.client.Client.Del(ctx, i.lockKey(key)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (i *IdempotencyRepo) responseKey(key string) string {
	return fmt.Sprintf("%sresponse:%s", keyPrefix, key)
}

func (i *IdempotencyRepo) lockKey(key string) string {
	return fmt.Sprintf("%slock:%s", keyPrefix, key)
}
