package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorCodes(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name string
		err  *AppError
		code string
	}{
		{"not found", NotFound("account missing", cause), ErrCodeNotFound},
		{"invalid input", InvalidInput("bad id", cause), ErrCodeInvalidInput},
		{"internal", InternalError("render failed", cause), ErrCodeInternalError},
		{"validation", ValidationError("missing field", nil), ErrCodeValidationError},
		{"service", ServiceError("upstream down", cause), ErrCodeServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.File)
			assert.NotZero(t, tt.err.Line)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	withCause := ServiceError("query failed", fmt.Errorf("timeout"))
	assert.Equal(t, "SERVICE_ERROR: query failed (caused by: timeout)", withCause.Error())

	withoutCause := NotFound("account missing", nil)
	assert.Equal(t, "NOT_FOUND: account missing", withoutCause.Error())
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := fmt.Errorf("export: %w", InternalError("failed to render workbook", cause))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.Equal(t, cause, appErr.Unwrap())
}
