package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"tabclean/internal/config"
)

const (
	ServiceName = "tabclean"
	MeterName   = "tabclean"
)

// Telemetry holds the tracing and metrics providers of a run
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Meter          metric.Meter

	metricsFile string
	logger      *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics. Spans go to traceOut
// when the stdout exporter is selected; metrics are always collected into
// a private Prometheus registry and written out on Shutdown when a metrics
// file is configured.
func InitializeTelemetry(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tel := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := tel.initializeTracing(cfg, res, traceOut); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := tel.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return tel, nil
}

// NoopTelemetry returns telemetry that records metrics in memory and drops spans
func NoopTelemetry() *Telemetry {
	tel, err := InitializeTelemetry(config.TelemetryConfig{TraceExporter: "none"}, io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		panic(fmt.Sprintf("noop telemetry: %v", err))
	}
	return tel
}

// createResource creates the OpenTelemetry resource
func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, out io.Writer) error {
	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		ratio := cfg.SampleRatio
		if ratio <= 0 {
			ratio = 1
		}
		// Spans are exported as each stage ends.
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(ratio)),
		)
		t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

// initializeMetrics sets up an OTel meter backed by a private Prometheus registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(t.Registry),
		otelprom.WithoutScopeInfo(),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
	return nil
}

// WriteMetrics writes the registry in Prometheus text format to path
func (t *Telemetry) WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes spans, writes the metrics file when configured, and
// releases the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}

	if t.metricsFile != "" {
		if err := t.WriteMetrics(t.metricsFile); err != nil {
			errs = append(errs, err)
		} else {
			t.logger.Info("Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// PipelineMetrics holds the instruments recorded by the cleaning pipeline
type PipelineMetrics struct {
	RowsLoaded    metric.Int64Counter
	RowsMatched   metric.Int64Counter
	RowsWritten   metric.Int64Counter
	CellsMissing  metric.Int64Counter
	AliasRemaps   metric.Int64Counter
	FillValue     metric.Float64Gauge
	StageDuration metric.Float64Histogram
	Runs          metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var (
		m   PipelineMetrics
		err error
	)

	if m.RowsLoaded, err = meter.Int64Counter("tabclean_rows_loaded",
		metric.WithDescription("Rows read from the input file")); err != nil {
		return nil, err
	}
	if m.RowsMatched, err = meter.Int64Counter("tabclean_rows_matched",
		metric.WithDescription("Rows kept by the segment filter")); err != nil {
		return nil, err
	}
	if m.RowsWritten, err = meter.Int64Counter("tabclean_rows_written",
		metric.WithDescription("Rows written to the cleaned output")); err != nil {
		return nil, err
	}
	if m.CellsMissing, err = meter.Int64Counter("tabclean_cells_missing",
		metric.WithDescription("Numeric cells that failed coercion and were filled")); err != nil {
		return nil, err
	}
	if m.AliasRemaps, err = meter.Int64Counter("tabclean_alias_remaps",
		metric.WithDescription("Categorical values replaced through the alias table")); err != nil {
		return nil, err
	}
	if m.FillValue, err = meter.Float64Gauge("tabclean_fill_value",
		metric.WithDescription("Value used to fill missing cells of a numeric column")); err != nil {
		return nil, err
	}
	if m.StageDuration, err = meter.Float64Histogram("tabclean_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.Runs, err = meter.Int64Counter("tabclean_runs",
		metric.WithDescription("Pipeline runs by outcome")); err != nil {
		return nil, err
	}

	return &m, nil
}

// ColumnAttr builds the column attribute set used by per-column instruments
func ColumnAttr(column string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("column", column))
}
