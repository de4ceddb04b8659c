package domain

import (
	"fmt"
	"strconv"
)

// CellKind identifies what a Cell currently holds
type CellKind int

const (
	// CellText is a raw text value as read from the source file
	CellText CellKind = iota
	// CellNumber is a parsed numeric value
	CellNumber
	// CellMissing marks a value that could not be coerced
	CellMissing
)

// Cell is a single table value. Every cell starts as text; numeric
// normalization turns it into a number or a missing marker.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// TextCell creates a text cell
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell creates a numeric cell
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// MissingCell creates a missing marker
func MissingCell() Cell {
	return Cell{Kind: CellMissing}
}

// IsMissing reports whether the cell is a missing marker
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// IsNull reports whether the cell carries no value: a missing marker or
// empty text. Whitespace-only text is still text.
func (c Cell) IsNull() bool {
	switch c.Kind {
	case CellMissing:
		return true
	case CellText:
		return c.Text == ""
	default:
		return false
	}
}

// String renders the cell the way it is written to output files.
// Numbers use the shortest representation with a point decimal.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return FormatNumber(c.Number)
	case CellMissing:
		return ""
	default:
		return c.Text
	}
}

// FormatNumber formats a float64 in shortest round-trip form
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Row is one record, positioned by the table schema
type Row []Cell

// Clone returns a copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Schema is the ordered column list of a table with a name lookup.
// When a header repeats a name, lookups resolve to the first occurrence.
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a schema from ordered column names
func NewSchema(columns []string) Schema {
	s := Schema{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, name := range columns {
		if _, exists := s.index[name]; !exists {
			s.index[name] = i
		}
	}
	return s
}

// Columns returns a copy of the column names in order
func (s Schema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns
func (s Schema) Len() int {
	return len(s.columns)
}

// Index returns the position of a column
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Has reports whether the schema contains a column
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Table is an ordered sequence of rows sharing a schema
type Table struct {
	Schema Schema
	Rows   []Row
}

// NewTable creates a table
func NewTable(schema Schema, rows []Row) *Table {
	return &Table{Schema: schema, Rows: rows}
}

// Len returns the row count
func (t *Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return &Table{Schema: NewSchema(t.Schema.columns), Rows: rows}
}

// Column returns the cells of a named column in row order
func (t *Table) Column(name string) ([]Cell, error) {
	idx, ok := t.Schema.Index(name)
	if !ok {
		return nil, fmt.Errorf("column %q not in schema", name)
	}
	cells := make([]Cell, len(t.Rows))
	for i, r := range t.Rows {
		cells[i] = r[idx]
	}
	return cells, nil
}

// Records renders the table as string records for writers and previews
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(r))
		for j, c := range r {
			rec[j] = c.String()
		}
		out[i] = rec
	}
	return out
}
