package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// newValidator создаёт валидатор, который сравнивает decimal.Decimal как число.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// validateStruct проверяет запрос и возвращает ошибку вида e.KindValidation с понятным клиенту текстом.
func validateStruct(v *validator.Validate, entity string, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return e.Validation(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(entity, fe))
	}

	return e.Validation(strings.Join(msgs, ", "))
}

func fieldMessage(entity string, fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s name cannot be empty", entity)
		}
		return fmt.Sprintf("%s name must be between %d and %d characters", entity, domain.NameMinLength, domain.NameMaxLength)
	case "Price":
		switch fe.Tag() {
		case "required":
			return "Price is required"
		case "lte":
			return fmt.Sprintf("Price must be less than or equal to %s", domain.MaxPrice.StringFixed(domain.PriceScale))
		default:
			return "Price must be greater than or equal to 0"
		}
	case "Stock":
		if fe.Tag() == "lte" {
			return "Stock is too large"
		}
		return "Stock must be greater than or equal to 0"
	case "CategoryID":
		return "Category is required"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// normalizeName убирает пробелы по краям имени.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

// normalizePrice округляет цену до двух знаков, как это делает NUMERIC(10,2).
// Вызывается после валидации: границы проверяются по исходному значению.
func normalizePrice(price *decimal.Decimal) *decimal.Decimal {
	if price == nil {
		return nil
	}
	rounded := price.Round(domain.PriceScale)
	return &rounded
}

// classify помечает неклассифицированную ошибку хранилища как e.KindStorage.
func classify(err error) error {
	var tagged *e.Error
	if errors.As(err, &tagged) {
		return err
	}
	return e.Storage(err)
}
