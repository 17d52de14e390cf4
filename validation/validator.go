// Package validation wraps go-playground/validator with the error messages
// the API contract promises. Handlers validate their bound request structs
// here instead of relying on gin's binding errors, which are too opaque to
// surface to clients.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/gastoncarriquiry/menu-maker/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate validates a struct using `validate` tags. It returns an
// *errors.AppError with a client-facing message naming the first failing
// field, or nil if the struct is valid.
func Validate(s any) error {
	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.Validation("Invalid request body")
	}

	e := validationErrors[0]
	if e.Tag() == "required" {
		return errors.MissingField(formatValidationError(e))
	}
	return errors.Validation(formatValidationError(e))
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	field := displayName(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + e.Param() + " characters long"
	case "max":
		return field + " must be at most " + e.Param() + " characters long"
	default:
		return field + " is invalid"
	}
}

// displayName capitalizes a json field name for the message text.
func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
