// Package errors provides unified error handling across the wrap-notes system.
//
// SYSTEM ARCHITECTURE ROLE:
// This module serves as the foundation for error handling across the CLI, the fill session
// and the document engine. Core packages (blank, models, render) return AppErrors so that
// a malformed marker or a dangling back-reference surfaces with the same code whether it
// was hit from the command line or from the interactive session.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes and categories for consistent error identification
// - Provide structured error types (AppError) with severity levels and context
// - Enable interface-specific error formatting while maintaining consistent core error data
//
// INTEGRATION POINTS:
// - internal/blank: ParseMarker returns MALFORMED_MARKER errors
// - internal/render: Focus.Validate returns FOCUS_CONFLICT errors
// - internal/models: Note.ResolveBackReference returns INVALID_BACK_REFERENCE errors
// - internal/validation: ValidationResult.ToAppError() converts validation failures
// - internal/cli: CLIErrorHandler formats AppErrors for terminal display
// - internal/ui: TUIErrorHandler provides styling for the fill session status line
//
// USAGE PATTERNS:
// - Create errors: Use constructor functions like MalformedMarkerError(), NotFoundError()
// - Wrap errors: Use Wrap() to add context to existing errors
// - Check types: Use IsAppError(), GetAppError() and HasCode() for type-safe handling
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Document errors
	ErrCodeMalformedMarker      ErrorCode = "MALFORMED_MARKER"
	ErrCodeFocusConflict        ErrorCode = "FOCUS_CONFLICT"
	ErrCodeInvalidBackReference ErrorCode = "INVALID_BACK_REFERENCE"
	ErrCodeBlankNotFound        ErrorCode = "BLANK_NOT_FOUND"
	ErrCodeInvalidOrdinal       ErrorCode = "INVALID_ORDINAL"

	// Service errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	// Command errors
	ErrCodeCommandFailed  ErrorCode = "COMMAND_FAILED"
	ErrCodeInvalidCommand ErrorCode = "INVALID_COMMAND"
	ErrCodeCancelled      ErrorCode = "CANCELLED"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryDocument   ErrorCategory = "document"
	CategoryService    ErrorCategory = "service"
	CategoryStorage    ErrorCategory = "storage"
	CategoryCommand    ErrorCategory = "command"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidFormat:
		return CategoryValidation, SeverityWarning

	// A corrupt marker means the stored document cannot be trusted
	case ErrCodeMalformedMarker:
		return CategoryDocument, SeverityCritical
	case ErrCodeInvalidBackReference:
		return CategoryDocument, SeverityError
	case ErrCodeFocusConflict:
		return CategoryDocument, SeverityCritical
	case ErrCodeBlankNotFound, ErrCodeInvalidOrdinal:
		return CategoryDocument, SeverityWarning

	case ErrCodeInternalError:
		return CategoryService, SeverityCritical

	case ErrCodeNotFound:
		return CategoryService, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryService, SeverityWarning

	case ErrCodeStorageFailure, ErrCodeFileCorrupted:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo

	case ErrCodeCancelled:
		return CategoryCommand, SeverityInfo
	case ErrCodeCommandFailed, ErrCodeInvalidCommand:
		return CategoryCommand, SeverityError

	default:
		return CategoryService, SeverityError
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err is, or wraps, an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func InvalidCommandError(command string, reason string) *AppError {
	return NewAppError(ErrCodeInvalidCommand, fmt.Sprintf("Invalid command '%s': %s", command, reason))
}

// MalformedMarkerError reports marker text that matched the delimiters but could not be decoded
func MalformedMarkerError(marker string, reason string) *AppError {
	return NewAppError(ErrCodeMalformedMarker, fmt.Sprintf("malformed marker %q", marker)).
		WithDetails(reason).
		WithContext("marker", marker)
}

// FocusConflictError reports a render request that focuses a blank and a section at once
func FocusConflictError(blankOrdinal, sectionOrdinal int) *AppError {
	return NewAppError(ErrCodeFocusConflict, "blank focus and content focus are mutually exclusive").
		WithContext("blank", blankOrdinal).
		WithContext("section", sectionOrdinal)
}

// BackReferenceError reports a back-reference whose target cannot supply a pronoun
func BackReferenceError(ordinal, target int, reason string) *AppError {
	return NewAppError(ErrCodeInvalidBackReference,
		fmt.Sprintf("blank #%d refers to blank #%d", ordinal, target)).
		WithDetails(reason).
		WithContext("ordinal", ordinal).
		WithContext("target", target)
}

// BlankNotFoundError reports an ordinal with no marker behind it
func BlankNotFoundError(ordinal int) *AppError {
	return NewAppError(ErrCodeBlankNotFound, fmt.Sprintf("no blank #%d in document", ordinal)).
		WithContext("ordinal", ordinal)
}
