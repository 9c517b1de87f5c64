// Package errors provides the coded error type shared by the loader, the
// catalog, the composer and the command-line surface.
//
// Failures fall into four groups:
//   - source errors: a style file could not be read or parsed. The loader
//     absorbs these and falls back to the next source.
//   - empty catalog: nothing usable was found anywhere. Surfaced as a
//     sentinel choice, never raised.
//   - selection errors: no style resolved while styling was requested.
//   - dependency errors: the text encoder capability is missing.
//
// Selection and dependency errors always reach the caller.
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
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidExpression ErrorCode = "INVALID_EXPRESSION"

	// Selection errors
	ErrCodeNoStyleSelected      ErrorCode = "NO_STYLE_SELECTED"
	ErrCodeUnknownStyleOverride ErrorCode = "UNKNOWN_STYLE_OVERRIDE"

	// Dependency errors
	ErrCodeInvalidEncoder ErrorCode = "INVALID_ENCODER"
	ErrCodeEncodeFailed   ErrorCode = "ENCODE_FAILED"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeSourceRead     ErrorCode = "SOURCE_READ_ERROR"
	ErrCodeEmptyCatalog   ErrorCode = "EMPTY_CATALOG"
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
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
	CategorySelection  ErrorCategory = "selection"
	CategoryDependency ErrorCategory = "dependency"
	CategoryStorage    ErrorCategory = "storage"
	CategorySystem     ErrorCategory = "system"
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

func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeInvalidExpression:
		return CategoryValidation, SeverityWarning

	case ErrCodeNoStyleSelected, ErrCodeUnknownStyleOverride:
		return CategorySelection, SeverityError

	case ErrCodeInvalidEncoder:
		return CategoryDependency, SeverityCritical
	case ErrCodeEncodeFailed:
		return CategoryDependency, SeverityError

	case ErrCodeNotFound:
		return CategorySelection, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryValidation, SeverityWarning

	case ErrCodeSourceRead, ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeEmptyCatalog:
		return CategoryStorage, SeverityWarning

	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is or wraps an AppError
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
	return Wrap(err, ErrCodeInternalError, err.Error())
}

// HasCode reports whether err is or wraps an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func NoStyleSelectedError() *AppError {
	return NewAppError(ErrCodeNoStyleSelected, "No style selected.")
}

func UnknownStyleOverrideError(id string) *AppError {
	return NewAppError(ErrCodeUnknownStyleOverride, fmt.Sprintf("Unknown style_id_override: %s", id)).
		WithContext("style_id", id)
}

func InvalidEncoderError() *AppError {
	return NewAppError(ErrCodeInvalidEncoder, "text_encoder input is invalid: None")
}

func SourceReadError(path string, err error) *AppError {
	return Wrap(err, ErrCodeSourceRead, fmt.Sprintf("unable to read style source: %s", path)).
		WithContext("path", path)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}
