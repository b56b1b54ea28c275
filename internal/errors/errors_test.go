package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajharbinger/vetted-api/internal/models"
	"github.com/ajharbinger/vetted-api/internal/repository"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"missing profile", fmt.Errorf("%w: abc", models.ErrProfileNotFound), ErrCodeNotFound, http.StatusNotFound},
		{"missing document", repository.ErrNotFound, ErrCodeNotFound, http.StatusNotFound},
		{"bad category", fmt.Errorf("%w: %q", models.ErrUnknownCategory, "blue"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"bad import", fmt.Errorf("%w: missing profiles", models.ErrInvalidImport), ErrCodeValidationError, http.StatusBadRequest},
		{"blank custom label", fmt.Errorf("%w: label is required", models.ErrInvalidItem), ErrCodeValidationError, http.StatusBadRequest},
		{"storage", stderrors.New("connection reset"), ErrCodeDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomain(tt.err, "test")
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, "test", appErr.Operation)
			assert.Equal(t, tt.status, HTTPStatus(appErr))
			assert.True(t, stderrors.Is(appErr, tt.err))
		})
	}
}

func TestFromDomainPassesAppErrorsThrough(t *testing.T) {
	original := Conflict("Email already registered", nil)

	assert.Same(t, original, FromDomain(fmt.Errorf("wrapped: %w", original), "register"))
	assert.Nil(t, FromDomain(nil, "noop"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("no", nil)))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Forbidden("no", nil)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("dup", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ServiceError("boom", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(stderrors.New("plain")))
}

func TestAppErrorMessage(t *testing.T) {
	err := NotFound("Profile not found", stderrors.New("missing"))

	assert.Equal(t, "NOT_FOUND: Profile not found (caused by: missing)", err.Error())
	assert.NotEmpty(t, err.File)
	assert.Equal(t, "NOT_FOUND: Profile not found", NotFound("Profile not found", nil).Error())
}
