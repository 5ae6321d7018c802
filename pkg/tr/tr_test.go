package tr

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct{}

func (fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestTxFromCtx_Missing(t *testing.T) {
	_, err := TxFromCtx(context.Background())

	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestQuerierFromCtx_FallsBackToPool(t *testing.T) {
	pool := fakeQuerier{}

	q := QuerierFromCtx(context.Background(), pool)

	assert.Equal(t, pool, q)
}

func TestNopManager_PropagatesResult(t *testing.T) {
	var m NopManager
	called := false

	err := m.Do(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	assert.ErrorIs(t, m.Do(context.Background(), func(context.Context) error { return boom }), boom)
}
