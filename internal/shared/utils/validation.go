package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/samvyt/rifa/internal/shared/errors"
)

var validate *validator.Validate

var (
	phoneDigits    = regexp.MustCompile(`^\+?[0-9]{10,14}$`)
	documentDigits = regexp.MustCompile(`^([0-9]{11}|[0-9]{14})$`)
)

func init() {
	validate = validator.New()

	// Use JSON tag names for validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneDigits.MatchString(DigitsOnly(fl.Field().String(), true))
	})
	// CPF (11 digits) or CNPJ (14 digits)
	_ = validate.RegisterValidation("document", func(fl validator.FieldLevel) bool {
		return documentDigits.MatchString(DigitsOnly(fl.Field().String(), false))
	})
}

// ValidateStruct validates a struct and returns a ValidationError listing every failing field.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.NewValidationError("Validation failed", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError("Validation failed", strings.Join(messages, "; "))
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "document":
		return fmt.Sprintf("%s must be a valid CPF or CNPJ", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must contain at least %s items", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must contain at most %s items", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}

// DigitsOnly strips everything but digits, keeping a leading '+' when allowed.
func DigitsOnly(s string, keepPlus bool) string {
	var b strings.Builder
	for i, r := range s {
		if r >= '0' && r <= '9' || keepPlus && i == 0 && r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
