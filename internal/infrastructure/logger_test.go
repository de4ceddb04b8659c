package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclean/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		check   func(t *testing.T, out string)
		hasFile bool
	}{
		{
			name: "json console",
			cfg:  config.LoggingConfig{Level: "info", Format: "json", Output: "console"},
			check: func(t *testing.T, out string) {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(out), &entry))
				assert.Equal(t, "hello", entry["msg"])
			},
		},
		{
			name: "text console",
			cfg:  config.LoggingConfig{Level: "info", Format: "text", Output: "console"},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "msg=hello")
			},
		},
		{
			name: "development adds source",
			cfg:  config.LoggingConfig{Level: "debug", Format: "json", Output: "console", Development: true},
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, `"source"`)
			},
		},
		{
			name:    "both writes console and file",
			cfg:     config.LoggingConfig{Level: "info", Format: "json", Output: "both"},
			hasFile: true,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "hello")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if tt.hasFile {
				tt.cfg.FilePath = filepath.Join(t.TempDir(), "run.log")
			}

			logger, file, err := NewLogger(tt.cfg, &buf)
			require.NoError(t, err)
			if tt.hasFile {
				require.NotNil(t, file)
				defer file.Close()
			} else {
				assert.Nil(t, file)
			}

			logger.Info("hello")
			tt.check(t, strings.TrimSpace(buf.String()))

			if tt.hasFile {
				content, err := os.ReadFile(tt.cfg.FilePath)
				require.NoError(t, err)
				assert.Contains(t, string(content), "hello")
			}
		})
	}

	t.Run("unwritable log path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		_, _, err := NewLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "run.log")}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "test-trace-123")
	WithComponent(logger, "loader").InfoContext(ctx, "test with trace")
	logger.Info("no trace")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var withTrace, withoutTrace map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &withTrace))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &withoutTrace))

	assert.Equal(t, "test-trace-123", withTrace["trace_id"])
	assert.Equal(t, "loader", withTrace["component"])
	assert.NotContains(t, withoutTrace, "trace_id")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestContextHelpers(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
	//nolint:staticcheck // nil context is handled
	assert.Equal(t, "", GetTraceID(nil))

	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)), "existing trace ID is kept")
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}
