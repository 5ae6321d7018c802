package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/go-chi/chi/v5"
)

const maxBodySize = 1 << 20

// statusByKind — единственное место, где вид ошибки превращается в HTTP-статус.
var statusByKind = map[e.Kind]int{
	e.KindNotFound:         http.StatusNotFound,
	e.KindCategoryNotFound: http.StatusBadRequest,
	e.KindDuplicateName:    http.StatusConflict,
	e.KindValidation:       http.StatusBadRequest,
	e.KindCategoryInUse:    http.StatusConflict,
	e.KindStorage:          http.StatusInternalServerError,
}

func ToHTTPResponse(err error) (int, string) {
	code, ok := statusByKind[e.KindOf(err)]
	if !ok {
		code = http.StatusInternalServerError
	}
	return code, e.Message(err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	writeError(w, code, msg)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Response{Success: false, Error: msg})
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Success: true, Message: msg})
}

// parseID читает целочисленный параметр пути.
func parseID(r *http.Request, param string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0, e.Validation(e.MsgInvalidID)
	}
	return id, nil
}

// decodeJSON читает тело запроса: ровно один JSON-объект. Любая ошибка разбора — ошибка валидации.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return e.Validation("Request body is too large")
		}
		return &e.Error{Kind: e.KindValidation, Message: e.MsgInvalidRequestBody, Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return e.Validation(e.MsgInvalidRequestBody)
	}
	return nil
}
