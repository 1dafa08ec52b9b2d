package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppErrorCategories(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ErrCodeValidation, CategoryValidation, SeverityWarning},
		{ErrCodeMalformedMarker, CategoryDocument, SeverityCritical},
		{ErrCodeBlankNotFound, CategoryDocument, SeverityWarning},
		{ErrCodeNotFound, CategoryService, SeverityInfo},
		{ErrCodeStorageFailure, CategoryStorage, SeverityError},
		{ErrCodeCancelled, CategoryCommand, SeverityInfo},
		{ErrorCode("SOMETHING_ELSE"), CategoryService, SeverityError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "boom")
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestGetAppError(t *testing.T) {
	plain := stderrors.New("disk on fire")
	appErr := GetAppError(plain)
	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.ErrorIs(t, appErr, plain)

	wrapped := fmt.Errorf("saving: %w", NotFoundError("note n1"))
	require.True(t, IsAppError(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodeNotFound))
	assert.Equal(t, "NOT_FOUND: note n1 not found", GetAppError(wrapped).Error())
	assert.False(t, HasCode(plain, ErrCodeNotFound))
}
