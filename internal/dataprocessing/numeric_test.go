package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tabclean/internal/errors"
	"tabclean/pkg/contracts/domain"
)

func TestParseLocaleNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"1.234,56", 1234.56, true},
		{"199,90", 199.9, true},
		{"-3,5", -3.5, true},
		{" 42 ", 42, true},
		{"50", 50, true},
		{"12.5", 12.5, true},
		{"1.000.000,00", 1000000, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12,5,3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-infinity", 0, false},
		{"0x1p3", 0, false},
		{"1_000", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLocaleNumber(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCoerceCell(t *testing.T) {
	assert.Equal(t, OptionalFloat{Value: 7, Valid: true}, CoerceCell(domain.NumberCell(7)))
	assert.Equal(t, OptionalFloat{Value: 2.5, Valid: true}, CoerceCell(domain.TextCell("2,5")))
	assert.False(t, CoerceCell(domain.TextCell("n/a")).Valid)
	assert.False(t, CoerceCell(domain.MissingCell()).Valid)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		wantOK bool
	}{
		{"odd count", []float64{30, 10, 20}, 20, true},
		{"even count", []float64{4, 1, 3, 2}, 2.5, true},
		{"single", []float64{9}, 9, true},
		{"empty", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]float64(nil), tt.values...)
			got, ok := Median(tt.values)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, input, tt.values, "input must not be reordered")
		})
	}
}

func TestFillValue(t *testing.T) {
	values := []OptionalFloat{{Value: 10, Valid: true}, {Value: 20, Valid: true}, {Value: 30, Valid: true}, {}}

	fill, ok := FillValue(values, domain.FillMedian)
	require.True(t, ok)
	assert.Equal(t, 20.0, fill)
	assert.Equal(t, []float64{10, 20, 30, 20}, FillMissing(values, fill))

	fill, ok = FillValue(values, domain.FillZero)
	require.True(t, ok)
	assert.Equal(t, 0.0, fill)
	assert.Equal(t, []float64{10, 20, 30, 0}, FillMissing(values, fill))

	_, ok = FillValue([]OptionalFloat{{}, {}}, domain.FillMedian)
	assert.False(t, ok)
}

func TestNormalizeNumeric(t *testing.T) {
	columns := []domain.NumericColumn{
		{Column: "Y_Venda_Total_Colecao", Fill: domain.FillZero},
		{Column: "X_Preco_Cheio", Fill: domain.FillMedian},
	}

	t.Run("fills per policy", func(t *testing.T) {
		table := textTable([]string{"Y_Venda_Total_Colecao", "X_Preco_Cheio"},
			[]string{"10", "10"},
			[]string{"abc", "20"},
			[]string{"", "30"},
			[]string{"1.234,56", ""})

		got, summary, err := NormalizeNumeric(table, columns)
		require.NoError(t, err)

		assert.Equal(t, []string{"10", "0", "0", "1234.56"}, columnStrings(t, got, "Y_Venda_Total_Colecao"))
		assert.Equal(t, []string{"10", "20", "30", "20"}, columnStrings(t, got, "X_Preco_Cheio"))
		assert.Equal(t, 2, summary.Missing["Y_Venda_Total_Colecao"])
		assert.Equal(t, 1, summary.Missing["X_Preco_Cheio"])
		assert.Equal(t, 20.0, summary.Fills["X_Preco_Cheio"])

		for _, row := range got.Rows {
			for _, cell := range row {
				assert.Equal(t, domain.CellNumber, cell.Kind)
			}
		}
		assert.Equal(t, "abc", table.Rows[1][0].Text, "input table is not modified")
	})

	t.Run("no valid prices", func(t *testing.T) {
		table := textTable([]string{"Y_Venda_Total_Colecao", "X_Preco_Cheio"},
			[]string{"1", ""},
			[]string{"2", "abc"})

		_, _, err := NormalizeNumeric(table, columns)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNoValidPrices))
	})

	t.Run("zero fill on all missing is allowed", func(t *testing.T) {
		table := textTable([]string{"Y_Venda_Total_Colecao"}, []string{""}, []string{"x"})

		got, _, err := NormalizeNumeric(table, columns[:1])
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "0"}, columnStrings(t, got, "Y_Venda_Total_Colecao"))
	})

	t.Run("missing column", func(t *testing.T) {
		table := textTable([]string{"Y_Venda_Total_Colecao"}, []string{"1"})

		_, _, err := NormalizeNumeric(table, columns)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrMissingColumn))
	})
}
