package pgdb

import (
	"errors"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
	codeStringTooLong       = "22001"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func postgresDuplicate(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// categoryWriteError переводит нарушения ограничений таблицы categories в ошибки бизнес-логики.
func categoryWriteError(err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return e.DuplicateName()
	case codeForeignKeyViolation:
		return e.CategoryInUse()
	case codeCheckViolation, codeStringTooLong:
		return e.Validation("Category name must be between 2 and 150 characters")
	default:
		return e.Storage(err)
	}
}

// productWriteError переводит нарушения ограничений таблицы products в ошибки бизнес-логики.
func productWriteError(err error) error {
	switch pgCode(err) {
	case codeForeignKeyViolation:
		return e.CategoryNotFound()
	case codeCheckViolation, codeNumericOutOfRange, codeStringTooLong:
		return e.Validation("Product violates storage constraints")
	default:
		return e.Storage(err)
	}
}
