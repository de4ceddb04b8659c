package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "tabclean/internal/errors"
	"tabclean/internal/validation"
	"tabclean/pkg/contracts/domain"
)

// DefaultSheetName is the worksheet that receives the table
const DefaultSheetName = "dataset"

// XLSXWriter writes cleaned tables as a single-sheet Excel workbook
type XLSXWriter struct {
	sheet     string
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewXLSXWriter creates a workbook writer for the named sheet
func NewXLSXWriter(sheet string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &XLSXWriter{
		sheet:     sheet,
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// WriteTable saves table to path as an .xlsx workbook with a frozen header row
func (w *XLSXWriter) WriteTable(path string, table *domain.Table) error {
	if err := w.validator.ValidateExtension(StageWriter, path, ".xlsx"); err != nil {
		return err
	}
	if err := w.validator.ValidateOutputFile(StageWriter, path); err != nil {
		return err
	}

	w.logger.Info("Writing workbook",
		slog.String("file_path", path),
		slog.String("sheet", w.sheet),
		slog.Int("record_count", table.Len()))

	f := excelize.NewFile()
	defer f.Close()

	if err := w.fill(f, table); err != nil {
		return apperrors.NewWriteError(StageWriter, path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewWriteError(StageWriter, path, err)
	}
	return nil
}

func (w *XLSXWriter) fill(f *excelize.File, table *domain.Table) error {
	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := headerValues(table.Schema.Columns())
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := rowValues(row)
		if err := f.SetSheetRow(w.sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
