package apperror

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation converts an ozzo validation error into the ValidationFailed
// shape, keeping the per-field violation messages as details.
func FromValidation(err error) *AppError {
	var errs validation.Errors
	if errors.As(err, &errs) {
		details := make(map[string]any, len(errs))
		for field, fieldErr := range errs {
			details[field] = fieldErr.Error()
		}
		return Validation("validation failed", details)
	}
	return Validation(err.Error(), nil)
}
