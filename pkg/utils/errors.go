package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeIO                ErrorType = "io"
	ErrorTypeOCR               ErrorType = "ocr"
	ErrorTypeConversion        ErrorType = "conversion"
	ErrorTypeSystem            ErrorType = "system"
	ErrorTypeUnsupported       ErrorType = "unsupported_format"
	ErrorTypeMissingDependency ErrorType = "missing_dependency"
	ErrorTypeMalformedInput    ErrorType = "malformed_input"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypePermission        ErrorType = "permission"
	ErrorTypeNotFound          ErrorType = "not_found"
)

// Sentinels for errors.Is. Only the Type field takes part in the comparison.
var (
	ErrValidation        = &AppError{Type: ErrorTypeValidation}
	ErrUnsupportedFormat = &AppError{Type: ErrorTypeUnsupported}
	ErrMissingDependency = &AppError{Type: ErrorTypeMissingDependency}
	ErrMalformedInput    = &AppError{Type: ErrorTypeMalformedInput}
	ErrConversion        = &AppError{Type: ErrorTypeConversion}
	ErrNotFound          = &AppError{Type: ErrorTypeNotFound}
)

// AppError represents an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new application error
func NewError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewError(ErrorTypeValidation, message, cause)
}

// NewIOError creates an I/O error
func NewIOError(message string, cause error) *AppError {
	return NewError(ErrorTypeIO, message, cause)
}

// NewOCRError creates an OCR error
func NewOCRError(message string, cause error) *AppError {
	return NewError(ErrorTypeOCR, message, cause)
}

// NewConversionError creates a conversion error
func NewConversionError(message string, cause error) *AppError {
	return NewError(ErrorTypeConversion, message, cause)
}

// NewUnsupportedError creates an unsupported format error
func NewUnsupportedError(message string, cause error) *AppError {
	return NewError(ErrorTypeUnsupported, message, cause)
}

// NewMissingDependencyError reports a capability (OCR engine, converter,
// external tool) that is not installed or not reachable.
func NewMissingDependencyError(message string, cause error) *AppError {
	return NewError(ErrorTypeMissingDependency, message, cause)
}

// NewMalformedInputError reports an input the extractor cannot open or parse.
func NewMalformedInputError(message string, cause error) *AppError {
	return NewError(ErrorTypeMalformedInput, message, cause)
}

// NewSystemError creates a system error
func NewSystemError(message string, cause error) *AppError {
	return NewError(ErrorTypeSystem, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string, cause error) *AppError {
	return NewError(ErrorTypeNotFound, message, cause)
}

// NewPermissionError creates a permission error
func NewPermissionError(message string, cause error) *AppError {
	return NewError(ErrorTypePermission, message, cause)
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}

	// An empty type keeps the classification of an existing AppError
	var appErr *AppError
	if errors.As(err, &appErr) && errorType == "" {
		return &AppError{
			Type:    appErr.Type,
			Message: message + ": " + appErr.Message,
			Cause:   appErr.Cause,
			Context: appErr.Context,
		}
	}

	if errorType == "" {
		errorType = classifyError(err)
	}

	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// classifyError automatically classifies an error based on its content
func classifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeSystem
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return ErrorTypeTimeout
	case errors.Is(err, os.ErrPermission) || strings.Contains(errStr, "permission denied"):
		return ErrorTypePermission
	case errors.Is(err, os.ErrNotExist) || strings.Contains(errStr, "no such file"):
		return ErrorTypeNotFound
	case strings.Contains(errStr, "executable file not found"):
		return ErrorTypeMissingDependency
	case strings.Contains(errStr, "convert"):
		return ErrorTypeConversion
	case strings.Contains(errStr, "invalid") || strings.Contains(errStr, "malformed"):
		return ErrorTypeMalformedInput
	default:
		return ErrorTypeSystem
	}
}

// GetErrorType extracts the error type from an error
func GetErrorType(err error) ErrorType {
	return classifyError(err)
}
