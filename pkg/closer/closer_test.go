package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloser_LIFO(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNopLogger())

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"db", "kafka", "http"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "kafka", "db"}, order)
}

func TestCloser_CollectsErrors(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNopLogger())
	boom := errors.New("boom")
	c.Add("redis", func(context.Context) error { return boom })
	c.Add("http", func(context.Context) error { return nil })

	err := c.Close(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "redis")
}

func TestCloser_OnlyOnce(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNopLogger())
	calls := 0
	c.Add("db", func(context.Context) error { calls++; return nil })

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloser_ForcesRemainingOnDeadline(t *testing.T) {
	c := NewCloser(time.Second, logger.NewNopLogger())
	forced := make(chan struct{}, 1)
	c.Add("db", func(ctx context.Context) error {
		if ctx.Err() == nil {
			forced <- struct{}{}
		}
		return nil
	})
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)

	assert.Error(t, err)
	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("remaining resource was not force-closed")
	}
}
