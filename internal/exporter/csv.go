package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "tabclean/internal/errors"
	"tabclean/internal/validation"
	"tabclean/pkg/contracts/domain"
)

// StageWriter names the writer stage in errors
const StageWriter = "writer"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes cleaned tables as UTF-8 CSV
type CSVWriter struct {
	delimiter rune
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer. Output starts with a UTF-8 BOM so
// spreadsheet tools detect the encoding.
func NewCSVWriter(delimiter rune, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVWriter{
		delimiter: delimiter,
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// WriteTable writes the header and every row of table to path. The data
// goes to a temporary file in the same directory which is renamed over
// path once complete.
func (w *CSVWriter) WriteTable(path string, table *domain.Table) error {
	if err := w.validator.ValidateOutputFile(StageWriter, path); err != nil {
		return err
	}

	w.logger.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", table.Len()))

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewWriteError(StageWriter, path, err)
	}
	tmpPath := tmp.Name()

	if err := w.encode(tmp, table); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperrors.NewWriteError(StageWriter, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewWriteError(StageWriter, path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return apperrors.NewWriteError(StageWriter, path, err)
	}

	return nil
}

func (w *CSVWriter) encode(file *os.File, table *domain.Table) error {
	buf := bufio.NewWriter(file)

	if _, err := buf.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(buf)
	writer.Comma = w.delimiter

	if err := writer.Write(table.Schema.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buf.Flush()
}
