package dataprocessing

import (
	apperrors "tabclean/internal/errors"
	"tabclean/pkg/contracts/domain"
)

// Stage names used in errors, logs and spans
const (
	StageLoader      = "loader"
	StageFilter      = "filter"
	StageProjector   = "projector"
	StageNumeric     = "numeric"
	StageCategorical = "categorical"
	StageWriter      = "writer"
)

// Filter returns the rows whose discriminator cell equals the target value
// exactly: case-sensitive, no trimming. A result with no rows is an
// EMPTY_FILTER_RESULT error.
func Filter(table *domain.Table, d domain.Discriminator) (*domain.Table, error) {
	idx, ok := table.Schema.Index(d.Column)
	if !ok {
		return nil, apperrors.NewMissingColumnError(StageFilter, d.Column)
	}

	var rows []domain.Row
	for _, row := range table.Rows {
		cell := row[idx]
		if cell.Kind == domain.CellText && cell.Text == d.Value {
			rows = append(rows, row.Clone())
		}
	}

	if len(rows) == 0 {
		return nil, apperrors.NewEmptyFilterResultError(StageFilter, d.Column, d.Value)
	}

	return domain.NewTable(domain.NewSchema(table.Schema.Columns()), rows), nil
}

// Project keeps only the mapped columns, renamed to their destinations in
// mapping order. Values are copied verbatim. The first source column absent
// from the schema is reported as MISSING_COLUMN.
func Project(table *domain.Table, mapping domain.ColumnMapping) (*domain.Table, error) {
	positions := make([]int, len(mapping))
	for i, pair := range mapping {
		idx, ok := table.Schema.Index(pair.Source)
		if !ok {
			return nil, apperrors.NewMissingColumnError(StageProjector, pair.Source)
		}
		positions[i] = idx
	}

	rows := make([]domain.Row, len(table.Rows))
	for i, src := range table.Rows {
		row := make(domain.Row, len(positions))
		for j, idx := range positions {
			row[j] = src[idx]
		}
		rows[i] = row
	}

	return domain.NewTable(domain.NewSchema(mapping.Destinations()), rows), nil
}
