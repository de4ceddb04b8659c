package infrastructure

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclean/internal/config"
)

func TestInitializeTelemetry(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantSDK  bool
		wantErr  bool
	}{
		{name: "no exporter", exporter: "none"},
		{name: "empty means none", exporter: ""},
		{name: "stdout exporter", exporter: "stdout", wantSDK: true},
		{name: "unknown exporter", exporter: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: tt.exporter}, &bytes.Buffer{}, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer tel.Shutdown(context.Background())

			assert.NotNil(t, tel.Tracer)
			assert.NotNil(t, tel.Meter)
			assert.NotNil(t, tel.Registry)
			assert.NotNil(t, tel.MeterProvider)
			assert.Equal(t, tt.wantSDK, tel.TracerProvider != nil)
		})
	}
}

func TestStdoutSpans(t *testing.T) {
	var out bytes.Buffer
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "stdout", Environment: "test"}, &out, nil)
	require.NoError(t, err)

	_, span := tel.Tracer.Start(context.Background(), "tabclean.filter")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))

	assert.Contains(t, out.String(), "tabclean.filter")
	assert.Contains(t, out.String(), ServiceName)
}

func TestPipelineMetrics(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "tabclean.prom")
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "none", MetricsFile: metricsFile}, nil, nil)
	require.NoError(t, err)

	metrics, err := NewPipelineMetrics(tel.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RowsLoaded.Add(ctx, 5)
	metrics.RowsMatched.Add(ctx, 3)
	metrics.CellsMissing.Add(ctx, 1, ColumnAttr("X_Preco_Cheio"))
	metrics.FillValue.Record(ctx, 20, ColumnAttr("X_Preco_Cheio"))
	metrics.StageDuration.Record(ctx, 0.01)

	require.NoError(t, tel.Shutdown(ctx))

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "tabclean_rows_loaded")
	assert.Contains(t, text, "tabclean_rows_matched")
	assert.Contains(t, text, `column="X_Preco_Cheio"`)
	assert.Contains(t, text, "tabclean_fill_value")
	assert.Contains(t, text, "tabclean_stage_duration_seconds")
}

func TestNoopTelemetry(t *testing.T) {
	tel := NoopTelemetry()
	require.NotNil(t, tel)
	assert.Nil(t, tel.TracerProvider)

	_, span := tel.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestWriteMetricsError(t *testing.T) {
	tel := NoopTelemetry()
	err := tel.WriteMetrics(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	assert.Error(t, err)
}
