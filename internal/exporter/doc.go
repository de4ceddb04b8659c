// Package exporter writes cleaned tables to disk.
//
// CSVWriter produces comma-delimited UTF-8 with a byte-order mark for
// Excel compatibility. Files are written to a temporary sibling and renamed
// into place, so a failed write never leaves a partial output behind.
//
// XLSXWriter produces a single-sheet workbook of the same table with
// numeric cells stored as numbers.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(',', logger)
//	if err := csvWriter.WriteTable("dataset_tratado_pv24.csv", table); err != nil {
//	    return err
//	}
//
//	xlsxWriter := exporter.NewXLSXWriter("", logger)
//	err := xlsxWriter.WriteTable("dataset_tratado_pv24.xlsx", table)
package exporter
