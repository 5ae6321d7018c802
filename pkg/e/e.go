package e

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку бизнес-логики. По Kind транспортный слой выбирает код ответа.
type Kind int

const (
	KindStorage Kind = iota
	KindNotFound
	KindCategoryNotFound
	KindDuplicateName
	KindValidation
	KindCategoryInUse
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindCategoryNotFound:
		return "category_not_found"
	case KindDuplicateName:
		return "duplicate_name"
	case KindValidation:
		return "validation"
	case KindCategoryInUse:
		return "category_in_use"
	default:
		return "storage"
	}
}

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	ErrInternalServerError = fmt.Errorf("Internal server error")
	ErrEndpointNotFound    = fmt.Errorf("Endpoint not found")
	ErrMethodNotAllowed    = fmt.Errorf("Method not allowed")
)

const (
	MsgCategoryNotFound    = "Category not found"
	MsgProductNotFound     = "Product not found"
	MsgCategoryNameExists  = "Category name already exists"
	MsgCategoryInUse       = "Category has products and cannot be deleted"
	MsgInvalidID           = "Invalid id"
	MsgInvalidRequestBody  = "Invalid request body"
	MsgIdempotencyConflict = "Request with this Idempotency-Key is already being processed"
)

// Error — ошибка с явным видом (Kind). Message показывается клиенту, Err — исходная причина.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки по Kind: errors.Is(err, &e.Error{Kind: e.KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NotFound(msg string) *Error {
	return New(KindNotFound, msg)
}

func CategoryNotFound() *Error {
	return New(KindCategoryNotFound, MsgCategoryNotFound)
}

func DuplicateName() *Error {
	return New(KindDuplicateName, MsgCategoryNameExists)
}

func Validation(msg string) *Error {
	return New(KindValidation, msg)
}

func CategoryInUse() *Error {
	return New(KindCategoryInUse, MsgCategoryInUse)
}

// Storage помечает любую прочую ошибку хранилища.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: ErrInternalServerError.Error(), Err: err}
}

// KindOf возвращает вид ошибки. Ошибки без вида считаются ошибками хранилища.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}

	return KindStorage
}

// Message возвращает текст, пригодный для показа клиенту.
func Message(err error) string {
	var tagged *Error
	if errors.As(err, &tagged) && tagged.Kind != KindStorage {
		return tagged.Message
	}

	return ErrInternalServerError.Error()
}

// IsKind сообщает, относится ли ошибка к указанному виду.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
