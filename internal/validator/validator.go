package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/shopspring/decimal"
)

// maxAmount is the first value that no longer fits a NUMERIC(10,2) column.
var maxAmount = decimal.New(1, 8)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validator.RegisterValidation("booking_code", validateBookingCode)
	validator.RegisterValidation("amount", validateAmount)

	return validator
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

func validateBookingCode(fl validator.FieldLevel) bool {
	return booking.IsBookingCode(fl.Field().String())
}

// decimalValue lets rules see a decimal as its exact string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}

	return nil
}

func validateAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return !amount.IsNegative() &&
		amount.Equal(amount.Truncate(2)) &&
		amount.LessThan(maxAmount)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "min":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", err.Param())
		}
		return fmt.Sprintf("must be at most %s", err.Param())
	case "amount":
		return "must be a non-negative amount below 100000000 with at most 2 decimal places"
	case "booking_code":
		return "must be a booking code such as MTB-20250301-7QK2ZD"
	default:
		return "is invalid"
	}
}
