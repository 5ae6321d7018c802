package clients

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	r "github.com/redis/go-redis/v9"
)

// RedisClient — подключение к Redis, в котором хранятся ответы на запросы с Idempotency-Key.
type RedisClient struct {
	Client *r.Client
	addr   string
}

func NewRedisClient(cfg *cfg.RedisCfg) *RedisClient {
	return &RedisClient{
		Client: r.NewClient(&r.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			Username:     cfg.User,
			MaxRetries:   cfg.MaxRetries,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		}),
		addr: cfg.Addr,
	}
}

// Addr возвращает адрес сервера для логов.
func (c *RedisClient) Addr() string {
	return c.addr
}

// Ping проверяет, что хранилище идемпотентности доступно при старте.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("idempotency store at %s is unreachable: %w", c.addr, err)
	}

	return nil
}

func (c *RedisClient) Close() error {
	if err := c.Client.Close(); err != nil {
		return fmt.Errorf("failed to close idempotency store connection: %w", err)
	}
	return nil
}
