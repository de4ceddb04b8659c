package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileNotFound      ErrorType = "FILE_NOT_FOUND"
	ErrTypeDecode            ErrorType = "DECODE"
	ErrTypeMissingColumn     ErrorType = "MISSING_COLUMN"
	ErrTypeEmptyFilterResult ErrorType = "EMPTY_FILTER_RESULT"
	ErrTypeNoValidPrices     ErrorType = "NO_VALID_PRICES"
	ErrTypeWrite             ErrorType = "WRITE"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// Sentinels for errors.Is. An AppError matches the sentinel of its type.
var (
	ErrFileNotFound      = stderrors.New("file not found")
	ErrDecode            = stderrors.New("decode error")
	ErrMissingColumn     = stderrors.New("missing column")
	ErrEmptyFilterResult = stderrors.New("empty filter result")
	ErrNoValidPrices     = stderrors.New("no valid prices")
	ErrWrite             = stderrors.New("write error")
	ErrConfig            = stderrors.New("configuration error")
)

var sentinels = map[ErrorType]error{
	ErrTypeFileNotFound:      ErrFileNotFound,
	ErrTypeDecode:            ErrDecode,
	ErrTypeMissingColumn:     ErrMissingColumn,
	ErrTypeEmptyFilterResult: ErrEmptyFilterResult,
	ErrTypeNoValidPrices:     ErrNoValidPrices,
	ErrTypeWrite:             ErrWrite,
	ErrTypeConfig:            ErrConfig,
}

// AppError represents an application-specific error raised by a pipeline stage
type AppError struct {
	Type    ErrorType
	Stage   string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Type)
	if e.Stage != "" {
		prefix = fmt.Sprintf("[%s] %s", e.Type, e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel of the error's type
func (e *AppError) Is(target error) bool {
	if s, ok := sentinels[e.Type]; ok {
		return s == target
	}
	return false
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, stage, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Stage:   stage,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of err, or "" when err is not an AppError
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// NewFileNotFoundError creates an error for an input path that does not resolve
func NewFileNotFoundError(stage, path string, cause error) *AppError {
	return NewAppError(ErrTypeFileNotFound, stage, fmt.Sprintf("file %q not found", path), cause).
		WithContext("path", path)
}

// NewDecodeError creates an error for a byte stream no encoding could parse
func NewDecodeError(stage, path string, encodings []string, cause error) *AppError {
	return NewAppError(ErrTypeDecode, stage, fmt.Sprintf("cannot decode %q with any of %v", path, encodings), cause).
		WithContext("path", path).
		WithContext("encodings", encodings)
}

// NewMissingColumnError creates an error naming an absent column
func NewMissingColumnError(stage, column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, stage, fmt.Sprintf("required column %q not found", column), nil).
		WithContext("column", column)
}

// NewEmptyFilterResultError creates the terminal zero-rows-matched error
func NewEmptyFilterResultError(stage, column, value string) *AppError {
	return NewAppError(ErrTypeEmptyFilterResult, stage, fmt.Sprintf("no rows with %s == %q", column, value), nil).
		WithContext("column", column).
		WithContext("value", value)
}

// NewNoValidPricesError creates an error for a median fill with no parsed values
func NewNoValidPricesError(stage, column string) *AppError {
	return NewAppError(ErrTypeNoValidPrices, stage, fmt.Sprintf("column %q has no parseable values to compute a median", column), nil).
		WithContext("column", column)
}

// NewWriteError wraps an I/O failure at the destination
func NewWriteError(stage, path string, cause error) *AppError {
	return NewAppError(ErrTypeWrite, stage, fmt.Sprintf("cannot write %q", path), cause).
		WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, "config", message, cause)
}
