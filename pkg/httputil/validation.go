package httputil

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
)

var validate = validator.New()

// Batch numbers allow alphanumerics plus hyphen, underscore and slash.
var batchNumberPattern = regexp.MustCompile(`^[A-Za-z0-9\-_/]+$`)

// Medicine names must not carry markup-sensitive characters.
var medicineNamePattern = regexp.MustCompile(`[<>"']`)

func init() {
	validate.RegisterValidation("batch_number", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true // optional
		}
		return batchNumberPattern.MatchString(value)
	})
	validate.RegisterValidation("medicine_name", func(fl validator.FieldLevel) bool {
		return !medicineNamePattern.MatchString(fl.Field().String())
	})
}

// Validate validates a struct using go-playground/validator
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		details := make(map[string]string)

		for _, e := range validationErrors {
			details[e.Field()] = formatValidationError(e)
		}

		return errors.Validation(details)
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "batch_number":
		return "can only contain letters, numbers, hyphens, underscores, and slashes"
	case "medicine_name":
		return "contains invalid characters"
	default:
		return "invalid value"
	}
}
