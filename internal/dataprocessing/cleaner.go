package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "tabclean/internal/errors"
	"tabclean/internal/infrastructure"
	"tabclean/internal/validation"
	"tabclean/pkg/contracts/domain"
)

// TableWriter persists a cleaned table
type TableWriter interface {
	WriteTable(path string, table *domain.Table) error
}

// Options selects the files of one run. An empty XLSXPath skips the
// workbook export; a non-empty one requires a workbook writer.
type Options struct {
	InputPath  string
	OutputPath string
	XLSXPath   string
}

// Cleaner runs load, filter, project, numeric and categorical
// normalization, then write, over one input file.
type Cleaner struct {
	rules     domain.Rules
	loader    *Loader
	csv       TableWriter
	xlsx      TableWriter
	telemetry *infrastructure.Telemetry
	metrics   *infrastructure.PipelineMetrics
	validator *validation.FileValidator
	logger    *slog.Logger
}

// CleanerOption customizes a Cleaner
type CleanerOption func(*Cleaner)

// WithWorkbookWriter enables XLSX export
func WithWorkbookWriter(w TableWriter) CleanerOption {
	return func(c *Cleaner) { c.xlsx = w }
}

// WithTelemetry records spans and metrics on tel
func WithTelemetry(tel *infrastructure.Telemetry) CleanerOption {
	return func(c *Cleaner) { c.telemetry = tel }
}

// NewCleaner builds a cleaner for rules. The rules are copied.
func NewCleaner(rules domain.Rules, loader *Loader, csv TableWriter, logger *slog.Logger, opts ...CleanerOption) (*Cleaner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cleaner{
		rules:  rules.Clone(),
		loader: loader,
		csv:    csv,
		logger: infrastructure.WithComponent(logger, "cleaner"),
	}
	c.validator = validation.NewFileValidator(c.logger)
	for _, opt := range opts {
		opt(c)
	}
	if c.telemetry == nil {
		c.telemetry = infrastructure.NoopTelemetry()
	}

	metrics, err := infrastructure.NewPipelineMetrics(c.telemetry.Meter)
	if err != nil {
		return nil, err
	}
	c.metrics = metrics
	return c, nil
}

// Rules returns a copy of the rules the cleaner applies
func (c *Cleaner) Rules() domain.Rules {
	return c.rules.Clone()
}

// Run cleans opts.InputPath into opts.OutputPath. On any error no new output
// file is left behind and an earlier file at opts.OutputPath is kept. The
// cleaned table is returned for previews.
func (c *Cleaner) Run(ctx context.Context, opts Options) (*domain.CleaningReport, *domain.Table, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	report := domain.NewCleaningReport(infrastructure.GetTraceID(ctx))
	report.InputPath = opts.InputPath
	report.OutputPath = opts.OutputPath
	report.XLSXPath = opts.XLSXPath

	ctx, span := c.telemetry.Tracer.Start(ctx, "tabclean.run",
		trace.WithAttributes(
			attribute.String("input", opts.InputPath),
			attribute.String("output", opts.OutputPath)))
	defer span.End()

	c.logger.InfoContext(ctx, "Cleaning started",
		slog.String("input", opts.InputPath),
		slog.String("output", opts.OutputPath))

	table, err := c.run(ctx, opts, report)
	report.Duration = time.Since(report.StartedAt)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		recordError(span, err)
		c.logger.ErrorContext(ctx, "Cleaning failed",
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
	} else {
		c.logger.InfoContext(ctx, "Cleaning completed",
			slog.Int("rows_written", report.RowsWritten),
			slog.Duration("duration", report.Duration))
	}
	c.metrics.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		return report, nil, err
	}
	return report, table, nil
}

func (c *Cleaner) run(ctx context.Context, opts Options, report *domain.CleaningReport) (*domain.Table, error) {
	var (
		table *domain.Table
		err   error
	)

	err = c.stage(ctx, StageLoader, func(ctx context.Context, span trace.Span) error {
		var encoding string
		table, encoding, err = c.loader.Load(ctx, opts.InputPath)
		if err != nil {
			return err
		}
		report.Encoding = encoding
		report.RowsLoaded = table.Len()
		c.metrics.RowsLoaded.Add(ctx, int64(table.Len()))
		span.SetAttributes(
			attribute.String("encoding", encoding),
			attribute.Int("rows", table.Len()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, StageFilter, func(ctx context.Context, span trace.Span) error {
		table, err = Filter(table, c.rules.Discriminator)
		if err != nil {
			return err
		}
		report.RowsMatched = table.Len()
		c.metrics.RowsMatched.Add(ctx, int64(table.Len()))
		span.SetAttributes(
			attribute.String("column", c.rules.Discriminator.Column),
			attribute.Int("rows", table.Len()))
		c.logger.InfoContext(ctx, "Rows filtered",
			slog.String("column", c.rules.Discriminator.Column),
			slog.String("value", c.rules.Discriminator.Value),
			slog.Int("matched", table.Len()),
			slog.Int("loaded", report.RowsLoaded))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, StageProjector, func(ctx context.Context, span trace.Span) error {
		table, err = Project(table, c.rules.Mapping)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.StringSlice("columns", table.Schema.Columns()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, StageNumeric, func(ctx context.Context, span trace.Span) error {
		var summary NumericSummary
		table, summary, err = NormalizeNumeric(table, c.rules.Numeric)
		if err != nil {
			return err
		}
		for _, col := range c.rules.Numeric {
			missing := summary.Missing[col.Column]
			fill := summary.Fills[col.Column]
			report.MissingByColumn[col.Column] = missing
			report.FillValues[col.Column] = fill
			c.metrics.CellsMissing.Add(ctx, int64(missing), infrastructure.ColumnAttr(col.Column))
			c.metrics.FillValue.Record(ctx, fill, infrastructure.ColumnAttr(col.Column))

			if col.Fill == domain.FillMedian {
				if !report.HasPriceMedian {
					report.PriceMedian = fill
					report.HasPriceMedian = true
				}
				c.logger.InfoContext(ctx, "Missing prices filled with median",
					slog.String("column", col.Column),
					slog.Float64("median", fill),
					slog.Int("filled", missing))
			} else if missing > 0 {
				c.logger.InfoContext(ctx, "Missing values filled",
					slog.String("column", col.Column),
					slog.Float64("fill", fill),
					slog.Int("filled", missing))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, StageCategorical, func(ctx context.Context, span trace.Span) error {
		var summary CategoricalSummary
		table, summary, err = NormalizeCategorical(table, c.rules)
		if err != nil {
			return err
		}
		report.AliasRemaps = summary.AliasRemaps
		c.metrics.AliasRemaps.Add(ctx, int64(summary.AliasRemaps))
		span.SetAttributes(
			attribute.Int("alias_remaps", summary.AliasRemaps),
			attribute.Int("nulls_replaced", summary.NullsReplaced))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.stage(ctx, StageWriter, func(ctx context.Context, span trace.Span) error {
		return c.write(ctx, opts, table, report)
	})
	if err != nil {
		return nil, err
	}

	return table, nil
}

func (c *Cleaner) write(ctx context.Context, opts Options, table *domain.Table, report *domain.CleaningReport) error {
	if opts.XLSXPath != "" && c.xlsx == nil {
		return apperrors.NewWriteError(StageWriter, opts.XLSXPath, errors.New("workbook export is not configured"))
	}

	if opts.XLSXPath == "" {
		if err := c.csv.WriteTable(opts.OutputPath, table); err != nil {
			return err
		}
	} else if err := c.writeWithWorkbook(ctx, opts, table); err != nil {
		return err
	}

	report.RowsWritten = table.Len()
	c.metrics.RowsWritten.Add(ctx, int64(table.Len()))
	c.logger.InfoContext(ctx, "Output written",
		slog.String("path", opts.OutputPath),
		slog.String("xlsx", opts.XLSXPath),
		slog.Int("rows", table.Len()))
	return nil
}

// writeWithWorkbook stages the CSV next to its destination and moves it into
// place only after the workbook is written. A failed workbook leaves any
// earlier file at opts.OutputPath untouched.
func (c *Cleaner) writeWithWorkbook(ctx context.Context, opts Options, table *domain.Table) error {
	if err := c.validator.ValidateOutputFile(StageWriter, opts.OutputPath); err != nil {
		return err
	}

	staged, err := os.CreateTemp(filepath.Dir(opts.OutputPath), "."+filepath.Base(opts.OutputPath)+".*.pending")
	if err != nil {
		return apperrors.NewWriteError(StageWriter, opts.OutputPath, err)
	}
	stagedPath := staged.Name()
	staged.Close()
	defer c.discard(ctx, stagedPath)

	if err := c.csv.WriteTable(stagedPath, table); err != nil {
		return err
	}
	if err := c.xlsx.WriteTable(opts.XLSXPath, table); err != nil {
		return err
	}
	if err := os.Rename(stagedPath, opts.OutputPath); err != nil {
		return apperrors.NewWriteError(StageWriter, opts.OutputPath, err)
	}
	return nil
}

// discard removes a staged file that was not moved into place
func (c *Cleaner) discard(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.WarnContext(ctx, "Failed to remove staged output",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// stage runs fn inside a span named after the stage and records its duration
func (c *Cleaner) stage(ctx context.Context, name string, fn func(context.Context, trace.Span) error) error {
	ctx, span := c.telemetry.Tracer.Start(ctx, "tabclean."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx, span)
	c.metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("stage", name)))

	if err != nil {
		recordError(span, err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if t := apperrors.TypeOf(err); t != "" {
		span.SetAttributes(attribute.String("error.type", string(t)))
	}
}
