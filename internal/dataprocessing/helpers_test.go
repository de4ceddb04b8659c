package dataprocessing

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tabclean/pkg/contracts/domain"
)

// sourceHeader is the raw export header, plus one column the mapping drops
const sourceHeader = "GRIFFE;VENDA_QT_TOTAL;VENDA_QT_30_DIAS;GRUPO_PRODUTO;FILIAL;DESC_COR;PV_ORIGINAL;COLECAO;PRODUTO;DESC_PRODUTO;ESTOQUE\n"

// sampleExport is a latin1 encoded export with five rows, three of which
// belong to the SACADA segment.
var sampleExport = []byte(sourceHeader +
	"SACADA;10;2;vestido ;SACADA BARRA SHOPPING-RJ;preto intenso;199,90;PV24;P1;Vestido longo;4\n" +
	"CANTAO;5;1;blusa;CANTAO CENTRO;azul;89,90;PV24;P2;Blusa;1\n" +
	"SACADA;;abc;Blusa;SACADA CENTRO; off white ;;PV24;P3;Blusa manga;0\n" +
	"SACADA ;1;1;saia;SACADA RIO;branco;50;PV24;P4;Saia;2\n" +
	"SACADA;3;0;;SACADA IGUATEMI - SP;;1.234,56;PV24;P5;Cal\xe7a cora\xe7\xe3o;7\n")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func textTable(columns []string, rows ...[]string) *domain.Table {
	out := make([]domain.Row, len(rows))
	for i, values := range rows {
		row := make(domain.Row, len(values))
		for j, v := range values {
			row[j] = domain.TextCell(v)
		}
		out[i] = row
	}
	return domain.NewTable(domain.NewSchema(columns), out)
}

func columnStrings(t *testing.T, table *domain.Table, name string) []string {
	t.Helper()
	cells, err := table.Column(name)
	require.NoError(t, err)
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}
