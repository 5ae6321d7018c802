package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer закрывает зарегистрированные ресурсы сервиса в обратном порядке (LIFO).
type Closer struct {
	resources     []resource
	mu            sync.Mutex
	once          sync.Once
	forcedTimeout time.Duration
	logger        logger.Logger
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие ресурсов, не успевших закрыться до отмены контекста.
func NewCloser(forcedTimeout time.Duration, logger logger.Logger) *Closer {
	const defaultForcedTimeout = 2 * time.Second

	if forcedTimeout == 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{
		forcedTimeout: forcedTimeout,
		logger:        logger,
	}
}

// Add регистрирует ресурс. Ресурсы закрываются в порядке, обратном регистрации.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы один раз. Если ctx отменён раньше, оставшиеся закрываются параллельно
// с отдельным таймаутом.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		var errs []error
		for i := len(resources) - 1; i >= 0; i-- {
			if ctx.Err() != nil {
				c.logger.Warnf("shutdown deadline exceeded, forcing %d remaining resource(s)", i+1)
				errs = append(errs, c.forceClose(resources[:i+1])...)
				break
			}

			res := resources[i]
			done := make(chan error, 1)
			go func() { done <- res.close(ctx) }()

			select {
			case closeErr := <-done:
				if closeErr != nil {
					errs = append(errs, fmt.Errorf("%s: %w", res.name, closeErr))
					continue
				}
				c.logger.Infof("%s closed", res.name)
			case <-ctx.Done():
				c.logger.Warnf("shutdown deadline exceeded, forcing %d remaining resource(s)", i+1)
				errs = append(errs, c.forceClose(resources[:i+1])...)
				err = errors.Join(errs...)
				return
			}
		}

		err = errors.Join(errs...)
	})

	return err
}

func (c *Closer) forceClose(resources []resource) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := res.close(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
