package exporter

import (
	"tabclean/pkg/contracts/domain"
)

// cellValue converts a cell to the value stored in a workbook: numbers
// stay numeric, missing cells are left blank.
func cellValue(c domain.Cell) interface{} {
	switch c.Kind {
	case domain.CellNumber:
		return c.Number
	case domain.CellMissing:
		return nil
	default:
		return c.Text
	}
}

// rowValues converts a row for excelize.SetSheetRow
func rowValues(row domain.Row) []interface{} {
	out := make([]interface{}, len(row))
	for i, c := range row {
		out[i] = cellValue(c)
	}
	return out
}

// headerValues converts column names for excelize.SetSheetRow
func headerValues(columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}
