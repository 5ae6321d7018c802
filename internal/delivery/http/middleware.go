package http

import (
	"bytes"
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

// accessLog пишет в лог каждый запрос вместе с request id.
func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.With("request_id", middleware.GetReqID(r.Context())).
				Infof("%s %s %d %dB %s", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start))
		})
	}
}

// recoverer превращает панику обработчика в ответ 500 в общем конверте.
func recoverer(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.With("request_id", middleware.GetReqID(r.Context())).
					Errorf(e.ErrInternalServerError, "panic: %v\n%s", rec, debug.Stack())
				writeError(w, http.StatusInternalServerError, e.ErrInternalServerError.Error())
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// idempotency повторяет сохранённый ответ для POST с заголовком Idempotency-Key.
// Ошибки хранилища не блокируют запрос: он выполняется как обычный.
func idempotency(store usecase.IdempotencyRepository, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(headerIdempotencyKey)
			if r.Method != http.MethodPost || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := r.Method + ":" + r.URL.Path + ":" + clientKey

			saved, err := store.Get(ctx, key)
			if err != nil {
				log.Warnf("idempotency lookup failed, serving request normally: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if saved != nil {
				replay(w, saved)
				return
			}

			locked, err := store.Lock(ctx, key)
			if err != nil {
				log.Warnf("idempotency lock failed, serving request normally: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !locked {
				writeError(w, http.StatusConflict, e.MsgIdempotencyConflict)
				return
			}

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			completed := false
			defer func() {
				if completed {
					return
				}
				if err := store.Unlock(context.WithoutCancel(ctx), key); err != nil {
					log.Warnf("idempotency unlock failed: %v", err)
				}
			}()

			next.ServeHTTP(ww, r)

			// Ответы 5xx не сохраняются, чтобы клиент мог повторить запрос.
			if ww.Status() >= http.StatusInternalServerError {
				return
			}

			resp := &usecase.IdempotentResponse{
				StatusCode:  ww.Status(),
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			}
			if err := store.Save(context.WithoutCancel(ctx), key, resp); err != nil {
				log.Warnf("idempotency save failed: %v", err)
				return
			}
			completed = true
		})
	}
}

func replay(w http.ResponseWriter, saved *usecase.IdempotentResponse) {
	if saved.ContentType != "" {
		w.Header().Set("Content-Type", saved.ContentType)
	}
	w.Header().Set(headerReplayed, "true")
	w.WriteHeader(saved.StatusCode)
	_, _ = w.Write(saved.Body)
}
