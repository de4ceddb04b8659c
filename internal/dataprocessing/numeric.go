package dataprocessing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "tabclean/internal/errors"
	"tabclean/pkg/contracts/domain"
)

// OptionalFloat is the result of coercing one cell: Valid is false when
// the text could not be parsed.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// NumericSummary reports what numeric normalization filled, per column
type NumericSummary struct {
	Missing map[string]int
	Fills   map[string]float64
}

// ParseLocaleNumber converts comma-decimal text to a float64. When the text
// contains a comma, '.' is read as a thousands separator and ',' as the
// decimal mark, so "1.234,56" parses as 1234.56. Empty, malformed and
// non-finite values report false.
func ParseLocaleNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceCell turns a cell into an optional number
func CoerceCell(c domain.Cell) OptionalFloat {
	switch c.Kind {
	case domain.CellNumber:
		return OptionalFloat{Value: c.Number, Valid: true}
	case domain.CellText:
		f, ok := ParseLocaleNumber(c.Text)
		return OptionalFloat{Value: f, Valid: ok}
	default:
		return OptionalFloat{}
	}
}

// Median returns the median of values; the mean of the two middle values
// for an even count. It reports false for an empty slice.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// FillValue computes the fill for a column under policy. Median fill with
// no valid values reports false.
func FillValue(values []OptionalFloat, policy domain.FillPolicy) (float64, bool) {
	if policy != domain.FillMedian {
		return 0, true
	}
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			valid = append(valid, v.Value)
		}
	}
	return Median(valid)
}

// FillMissing replaces invalid entries with fill
func FillMissing(values []OptionalFloat, fill float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v.Valid {
			out[i] = v.Value
		} else {
			out[i] = fill
		}
	}
	return out
}

// NormalizeNumeric coerces each configured column to numbers and fills
// missing cells by the column's policy. Coercion failures never raise; a
// median column with no parseable value is a NO_VALID_PRICES error.
func NormalizeNumeric(table *domain.Table, columns []domain.NumericColumn) (*domain.Table, NumericSummary, error) {
	summary := NumericSummary{
		Missing: make(map[string]int, len(columns)),
		Fills:   make(map[string]float64, len(columns)),
	}
	out := table.Clone()

	for _, col := range columns {
		idx, ok := out.Schema.Index(col.Column)
		if !ok {
			return nil, summary, apperrors.NewMissingColumnError(StageNumeric, col.Column)
		}

		values := make([]OptionalFloat, len(out.Rows))
		missing := 0
		for i, row := range out.Rows {
			values[i] = CoerceCell(row[idx])
			if !values[i].Valid {
				missing++
			}
		}

		fill, ok := FillValue(values, col.Fill)
		if !ok {
			return nil, summary, apperrors.NewNoValidPricesError(StageNumeric, col.Column)
		}

		for i, v := range FillMissing(values, fill) {
			out.Rows[i][idx] = domain.NumberCell(v)
		}
		summary.Missing[col.Column] = missing
		summary.Fills[col.Column] = fill
	}

	return out, summary, nil
}
