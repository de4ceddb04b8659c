// Package main provides the CLI entry point for tabclean.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tabclean/internal/config"
	"tabclean/internal/dataprocessing"
	apperrors "tabclean/internal/errors"
	"tabclean/internal/exporter"
	"tabclean/internal/infrastructure"
	"tabclean/pkg/contracts"
	"tabclean/pkg/contracts/domain"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitInputError  = 2
	ExitEmptyFilter = 3
	ExitDataError   = 4
	ExitWriteError  = 5
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// cli holds flag values and output streams for one invocation
type cli struct {
	stdout io.Writer
	stderr io.Writer

	verbose   bool
	quiet     bool
	rulesFile string
	xlsxPath  string
}

// execute runs the command line and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// exitCodeFor maps an error to its exit code. Errors that are not
// AppErrors come from argument parsing and count as configuration errors.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeFileNotFound, apperrors.ErrTypeDecode, apperrors.ErrTypeMissingColumn:
		return ExitInputError
	case apperrors.ErrTypeEmptyFilterResult:
		return ExitEmptyFilter
	case apperrors.ErrTypeNoValidPrices:
		return ExitDataError
	case apperrors.ErrTypeWrite:
		return ExitWriteError
	}
	return ExitConfigError
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "tabclean - retail sales export cleaner",
		Long: `tabclean turns the raw ';'-delimited sales export into a modelling dataset.

It keeps the SACADA segment, selects and renames the model columns, parses
comma-decimal numbers, fills missing values and normalizes categorical text.

Examples:
  # Clean the default files in the working directory
  tabclean run

  # Clean a given export with a custom rules file
  tabclean run --rules rules.yaml export.csv dataset.csv

  # Check a rules file
  tabclean validate rules.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Suppress non-error output")

	runCmd := &cobra.Command{
		Use:   "run [input] [output]",
		Short: "Clean an export into the modelling dataset",
		Long: `Run the cleaning pipeline: load, filter, project, normalize, write.

Input and output default to TABCLEAN_INPUT_PATH and TABCLEAN_OUTPUT_PATH.

Exit codes:
  0 - Dataset written
  1 - Configuration error
  2 - Input error (file not found, undecodable, missing column)
  3 - No rows matched the segment filter
  4 - No valid price to compute the median fill
  5 - Output could not be written`,
		Args: cobra.MaximumNArgs(2),
		RunE: c.runClean,
	}
	runCmd.Flags().StringVar(&c.rulesFile, "rules", "", "YAML business rules file")
	runCmd.Flags().StringVar(&c.xlsxPath, "xlsx", "", "Also write the dataset as an .xlsx workbook")

	validateCmd := &cobra.Command{
		Use:   "validate [rules-file]",
		Short: "Validate configuration and business rules",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runValidate,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(c.stdout, contracts.GetFullVersionString())
		},
	}

	root.AddCommand(runCmd, validateCmd, versionCmd)
	return root
}

// loadConfig reads configuration and applies the command line overrides
func (c *cli) loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Input.Path = args[0]
	}
	if len(args) > 1 {
		cfg.Output.Path = args[1]
	}
	if c.rulesFile != "" {
		cfg.Rules.File = c.rulesFile
	}
	if c.xlsxPath != "" {
		cfg.Output.XLSXPath = c.xlsxPath
	}
	switch {
	case c.verbose:
		cfg.Logging.Level = "debug"
	case c.quiet:
		cfg.Logging.Level = "error"
	}
	return cfg, nil
}

func (c *cli) runClean(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(args)
	if err != nil {
		return err
	}
	rules, err := cfg.BuildRules()
	if err != nil {
		return err
	}

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, c.stderr)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	tel, err := infrastructure.InitializeTelemetry(cfg.Telemetry, c.stderr, logger)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	ctx := infrastructure.EnsureTraceID(cmd.Context())
	logger.InfoContext(ctx, "Starting tabclean",
		"version", config.AppVersion,
		"config", cfg.Summary())

	opts := []dataprocessing.CleanerOption{dataprocessing.WithTelemetry(tel)}
	if cfg.Output.XLSXPath != "" {
		opts = append(opts, dataprocessing.WithWorkbookWriter(exporter.NewXLSXWriter("", logger)))
	}

	cleaner, err := dataprocessing.NewCleaner(rules,
		dataprocessing.NewLoader(rune(cfg.Input.Delimiter[0]), cfg.Input.Encodings, logger),
		exporter.NewCSVWriter(rune(cfg.Output.Delimiter[0]), logger),
		logger, opts...)
	if err != nil {
		return apperrors.NewConfigError("failed to create cleaner", err)
	}

	report, table, err := cleaner.Run(ctx, dataprocessing.Options{
		InputPath:  cfg.Input.Path,
		OutputPath: cfg.Output.Path,
		XLSXPath:   cfg.Output.XLSXPath,
	})
	if err != nil {
		return err
	}

	if !c.quiet {
		printReport(c.stdout, report)
		printPreview(c.stdout, table, config.PreviewRows)
	}
	return nil
}

func (c *cli) runValidate(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		c.rulesFile = args[0]
	}
	cfg, err := c.loadConfig(nil)
	if err != nil {
		return err
	}
	rules, err := cfg.BuildRules()
	if err != nil {
		return err
	}

	if c.quiet {
		return nil
	}

	source := "built-in defaults"
	if cfg.Rules.File != "" {
		source = cfg.Rules.File
	}
	fmt.Fprintf(c.stdout, "✓ Configuration is valid (rules: %s)\n", source)
	fmt.Fprintf(c.stdout, "  %s\n", cfg.Summary())
	fmt.Fprintf(c.stdout, "  Filter: %s == %q\n", rules.Discriminator.Column, rules.Discriminator.Value)
	fmt.Fprintln(c.stdout, "  Mapping:")
	for _, pair := range rules.Mapping {
		fmt.Fprintf(c.stdout, "    %s → %s\n", pair.Source, pair.Destination)
	}
	if c.verbose {
		for _, col := range rules.Numeric {
			fmt.Fprintf(c.stdout, "  Numeric: %s (fill %s)\n", col.Column, col.Fill)
		}
		aliases := make([]string, 0, len(rules.Aliases.Values))
		for from := range rules.Aliases.Values {
			aliases = append(aliases, from)
		}
		sort.Strings(aliases)
		for _, from := range aliases {
			fmt.Fprintf(c.stdout, "  Alias: %s → %s\n", from, rules.Aliases.Values[from])
		}
	}
	return nil
}

func printReport(w io.Writer, report *domain.CleaningReport) {
	fmt.Fprintln(w, "✓ Dataset written")
	fmt.Fprintf(w, "  Input: %s (%s, %d rows)\n", report.InputPath, report.Encoding, report.RowsLoaded)
	fmt.Fprintf(w, "  Matched: %d rows\n", report.RowsMatched)
	if report.HasPriceMedian {
		fmt.Fprintf(w, "  Missing prices filled with %.2f\n", report.PriceMedian)
	}
	fmt.Fprintf(w, "  Colors remapped: %d\n", report.AliasRemaps)
	fmt.Fprintf(w, "  Output: %s (%d rows)\n", report.OutputPath, report.RowsWritten)
	if report.XLSXPath != "" {
		fmt.Fprintf(w, "  Workbook: %s\n", report.XLSXPath)
	}
	fmt.Fprintf(w, "  Run: %s in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
}

// printPreview writes the first n rows of table as aligned columns
func printPreview(w io.Writer, table *domain.Table, n int) {
	if table == nil {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Schema.Columns(), "\t"))
	for i, record := range table.Records() {
		if i == n {
			break
		}
		fmt.Fprintln(tw, strings.Join(record, "\t"))
	}
	tw.Flush()
}
