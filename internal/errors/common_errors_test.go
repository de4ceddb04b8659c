package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "file not found", errType: ErrTypeFileNotFound, expected: "FILE_NOT_FOUND"},
		{name: "decode", errType: ErrTypeDecode, expected: "DECODE"},
		{name: "missing column", errType: ErrTypeMissingColumn, expected: "MISSING_COLUMN"},
		{name: "empty filter result", errType: ErrTypeEmptyFilterResult, expected: "EMPTY_FILTER_RESULT"},
		{name: "no valid prices", errType: ErrTypeNoValidPrices, expected: "NO_VALID_PRICES"},
		{name: "write", errType: ErrTypeWrite, expected: "WRITE"},
		{name: "config", errType: ErrTypeConfig, expected: "CONFIG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "with stage and cause",
			err:      NewAppError(ErrTypeWrite, "writer", "cannot write", fmt.Errorf("disk full")),
			expected: "[WRITE] writer: cannot write: disk full",
		},
		{
			name:     "without cause",
			err:      NewAppError(ErrTypeMissingColumn, "projector", "column X missing", nil),
			expected: "[MISSING_COLUMN] projector: column X missing",
		},
		{
			name:     "without stage",
			err:      NewAppError(ErrTypeConfig, "", "bad rules", nil),
			expected: "[CONFIG]: bad rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"file not found", NewFileNotFoundError("loader", "in.csv", nil), ErrFileNotFound},
		{"decode", NewDecodeError("loader", "in.csv", []string{"latin1", "utf-8"}, nil), ErrDecode},
		{"missing column", NewMissingColumnError("filter", "GRIFFE"), ErrMissingColumn},
		{"empty filter", NewEmptyFilterResultError("filter", "GRIFFE", "SACADA"), ErrEmptyFilterResult},
		{"no valid prices", NewNoValidPricesError("numeric", "X_Preco_Cheio"), ErrNoValidPrices},
		{"write", NewWriteError("writer", "out.csv", errors.New("boom")), ErrWrite},
		{"config", NewConfigError("invalid", nil), ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("pipeline: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.False(t, errors.Is(wrapped, errors.New("other")))
		})
	}
}

func TestAppError_UnwrapCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewWriteError("writer", "/root/out.csv", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "/root/out.csv", err.Context["path"])
}

func TestTypeOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewMissingColumnError("projector", "PRODUTO"))

	assert.Equal(t, ErrTypeMissingColumn, TypeOf(err))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PRODUTO", appErr.Context["column"])
	assert.Equal(t, "projector", appErr.Stage)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeDecode}
	err.WithContext("encoding", "latin1").WithContext("line", 3)

	assert.Equal(t, "latin1", err.Context["encoding"])
	assert.Equal(t, 3, err.Context["line"])
}
