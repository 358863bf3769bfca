package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusBadRequest},
		{"not found", NotFound("booking"), CodeNotFound, http.StatusNotFound},
		{"conflict", Conflict("already exists"), CodeConflict, http.StatusConflict},
		{"forbidden", Forbidden("no access"), CodeForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("login required"), CodeUnauthorized, http.StatusUnauthorized},
		{"bad gateway", BadGateway("provider down", nil), CodeBadGateway, http.StatusBadGateway},
		{"internal", Internal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "booking not found", NotFound("booking").Message)
}

func TestFromPassesAppErrorThrough(t *testing.T) {
	original := Conflict("duplicate")

	assert.Same(t, original, From(original))
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	raw := errors.New("driver exploded")

	appErr := From(raw)

	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, raw)
}

func TestFromUnwrapsWrappedAppError(t *testing.T) {
	inner := NotFound("hotel")
	wrapped := fmt.Errorf("loading: %w", inner)

	assert.Same(t, inner, From(wrapped))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := BadGateway("provider unreachable", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFromValidationKeepsFieldDetails(t *testing.T) {
	errs := validation.Errors{
		"email":    errors.New("invalid email format"),
		"password": errors.New("password is required"),
	}

	appErr := FromValidation(errs)

	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, "validation failed", appErr.Message)
	assert.Equal(t, "invalid email format", appErr.Details["email"])
	assert.Equal(t, "password is required", appErr.Details["password"])
}

func TestFromValidationPlainError(t *testing.T) {
	appErr := FromValidation(errors.New("body is not valid JSON"))

	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, "body is not valid JSON", appErr.Message)
	assert.Empty(t, appErr.Details)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("room")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NotFound("room"))))
	assert.False(t, IsNotFound(Conflict("x")))
	assert.False(t, IsNotFound(errors.New("plain")))

	assert.True(t, IsConflict(Conflict("x")))
	assert.False(t, IsConflict(NotFound("room")))
}
