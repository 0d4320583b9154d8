package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rl1809/cims/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates the format rules on a DTO's supplied fields and collects
// the extra per-field problems passed in, returning a *domain.ValidationError
// when anything is wrong.
func check(dto any, problems ...string) error {
	var fields []string
	for _, p := range problems {
		if p != "" {
			fields = append(fields, p)
		}
	}

	if err := validate.Struct(dto); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range verrs {
			fields = append(fields, fieldMessage(fe))
		}
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		if fe.Param() == "1" {
			return fe.Field() + ": must not be empty"
		}
		return fmt.Sprintf("%s: must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + ": must be a valid email address"
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag())
	}
}

func requiredString(field string, v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return field + ": is required"
	}
	return ""
}

func requiredValue[T any](field string, v *T) string {
	if v == nil {
		return field + ": is required"
	}
	return ""
}

// suppliedNonBlank rejects a supplied value that is blank after trimming.
// Absent (nil) values pass: updates leave them untouched.
func suppliedNonBlank(field string, v *string) string {
	if v != nil && strings.TrimSpace(*v) == "" {
		return field + ": must not be blank"
	}
	return ""
}

// maxMoney is the largest amount the DECIMAL(10,2) money columns hold.
var maxMoney = decimal.RequireFromString("99999999.99")

func validMoney(field string, v *decimal.Decimal) string {
	switch {
	case v == nil:
		return ""
	case v.IsNegative():
		return field + ": must not be negative"
	case domain.Money(*v).GreaterThan(maxMoney):
		return field + ": must be at most " + maxMoney.StringFixed(2)
	}
	return ""
}
