package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]*usecase.IdempotentResponse
	locks     map[string]bool
	getErr    error
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{
		responses: make(map[string]*usecase.IdempotentResponse),
		locks:     make(map[string]bool),
	}
}

func (f *fakeIdempotencyStore) Get(_ context.Context, key string) (*usecase.IdempotentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.responses[key], nil
}

func (f *fakeIdempotencyStore) Lock(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[key] {
		return false, nil
	}
	f.locks[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) Save(_ context.Context, key string, resp *usecase.IdempotentResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = resp
	delete(f.locks, key)
	return nil
}

func (f *fakeIdempotencyStore) Unlock(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locks, key)
	return nil
}

func TestIdempotency_ReplaysCreate(t *testing.T) {
	store := newFakeIdempotencyStore()
	h := newTestRouter(t, store)

	first, env := do(t, h, http.MethodPost, "/api/categories", `{"name":"Books"}`, headerIdempotencyKey, "abc")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(headerReplayed))
	created := decodeData[CategoryResponse](t, env)

	second, env := do(t, h, http.MethodPost, "/api/categories", `{"name":"Books"}`, headerIdempotencyKey, "abc")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(headerReplayed))
	assert.Equal(t, created.ID, decodeData[CategoryResponse](t, env).ID)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec, env := do(t, h, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]CategoryResponse](t, env), 1)
}

func TestIdempotency_WithoutKey(t *testing.T) {
	h := newTestRouter(t, newFakeIdempotencyStore())

	do(t, h, http.MethodPost, "/api/categories", `{"name":"Books"}`)
	rec, _ := do(t, h, http.MethodPost, "/api/categories", `{"name":"Books"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotency_ConcurrentKey(t *testing.T) {
	store := newFakeIdempotencyStore()
	store.locks["POST:/api/categories:busy"] = true
	h := newTestRouter(t, store)

	rec, env := do(t, h, http.MethodPost, "/api/categories", `{"name":"Books"}`, headerIdempotencyKey, "busy")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Request with this Idempotency-Key is already being processed", env.Error)
}

func TestIdempotency_StoreFailureFallsThrough(t *testing.T) {
	store := newFakeIdempotencyStore()
	store.getErr = errors.New("redis down")
	h := idempotency(store, logger.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteMessage(w, http.StatusCreated, "ok")
	}))

	rec, env := do(t, h, http.MethodPost, "/api/categories", `{}`, headerIdempotencyKey, "k")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", env.Message)
}

func TestIdempotency_ServerErrorNotStored(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	h := idempotency(store, logger.NewNopLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}))

	do(t, h, http.MethodPost, "/x", `{}`, headerIdempotencyKey, "k")
	do(t, h, http.MethodPost, "/x", `{}`, headerIdempotencyKey, "k")

	assert.Equal(t, 2, calls)
	assert.Empty(t, store.responses)
	assert.Empty(t, store.locks)
}
