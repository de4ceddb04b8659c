package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "tabclean/internal/errors"
	"tabclean/internal/validation"
	"tabclean/pkg/contracts/domain"
)

// Loader reads a delimited export into a Table, resolving its encoding
type Loader struct {
	delimiter rune
	encodings []string
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoader creates a loader that tries encodings in order
func NewLoader(delimiter rune, encodings []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if len(encodings) == 0 {
		encodings = []string{"latin1", "utf-8"}
	}
	return &Loader{
		delimiter: delimiter,
		encodings: encodings,
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// Load reads the file at path. It returns the table and the name of the
// encoding that parsed it.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, string, error) {
	if err := l.validator.ValidateFile(StageLoader, path); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperrors.NewFileNotFoundError(StageLoader, path, err)
		}
		return nil, "", apperrors.NewDecodeError(StageLoader, path, l.encodings, err)
	}

	table, encoding, err := l.Parse(ctx, data)
	if err != nil {
		return nil, "", apperrors.NewDecodeError(StageLoader, path, encodingOrder(l.encodings, data), err)
	}

	l.logger.InfoContext(ctx, "Input loaded",
		slog.String("path", path),
		slog.String("encoding", encoding),
		slog.Int("rows", table.Len()),
		slog.Int("columns", table.Schema.Len()))

	return table, encoding, nil
}

// Parse decodes and parses raw bytes, trying each encoding until one
// yields a well-formed table. The returned error joins every attempt.
func (l *Loader) Parse(ctx context.Context, data []byte) (*domain.Table, string, error) {
	var attempts []error
	for _, name := range encodingOrder(l.encodings, data) {
		text, err := decodeBytes(name, data)
		if err == nil {
			var table *domain.Table
			if table, err = parseDelimited(text, l.delimiter); err == nil {
				return table, name, nil
			}
		}
		l.logger.WarnContext(ctx, "Encoding attempt failed",
			slog.String("encoding", name),
			slog.String("error", err.Error()))
		attempts = append(attempts, fmt.Errorf("%s: %w", name, err))
	}
	return nil, "", errors.Join(attempts...)
}

// parseDelimited parses decoded text. The first record is the header.
// Short rows are padded with missing cells; long rows are rejected.
// Field values are kept exactly as read. A quote inside an unquoted field
// is literal text, as in inch marks on product descriptions.
func parseDelimited(text string, delimiter rune) (*domain.Table, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	schema := domain.NewSchema(header)
	var rows []domain.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line, len(record), len(header))
		}

		row := make(domain.Row, len(header))
		for i := range row {
			if i < len(record) {
				row[i] = domain.TextCell(record[i])
			} else {
				row[i] = domain.MissingCell()
			}
		}
		rows = append(rows, row)
	}

	return domain.NewTable(schema, rows), nil
}
