package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, Discriminator{Column: "GRIFFE", Value: "SACADA"}, rules.Discriminator)
	assert.Equal(t, []string{
		"VENDA_QT_TOTAL", "VENDA_QT_30_DIAS", "GRUPO_PRODUTO", "FILIAL", "DESC_COR",
		"PV_ORIGINAL", "COLECAO", "PRODUTO", "DESC_PRODUTO",
	}, rules.Mapping.Sources())
	assert.Equal(t, []string{
		"Y_Venda_Total_Colecao", "X_Venda_30_Dias", "X_Categoria", "X_Cluster_Loja", "X_Cor_Agrupada",
		"X_Preco_Cheio", "X_Tipo_Colecao", "ID_Produto", "Descricao_Produto",
	}, rules.Mapping.Destinations())
	assert.Equal(t, NullLiteral, rules.NullPolicy)
	assert.Equal(t, []ConstantColumn{{Column: "X_Tipo_Colecao", Value: "PV"}}, rules.Constants)
}

func TestAliasTable_Resolve(t *testing.T) {
	aliases := DefaultRules().Aliases.Values

	got, ok := aliases.Resolve("OFF WHITE")
	assert.True(t, ok)
	assert.Equal(t, "BRANCO", got)

	got, ok = aliases.Resolve("AZUL")
	assert.False(t, ok)
	assert.Equal(t, "AZUL", got)

	got, ok = AliasTable(nil).Resolve("AZUL")
	assert.False(t, ok)
	assert.Equal(t, "AZUL", got)
}

func TestRules_Clone(t *testing.T) {
	rules := DefaultRules()
	clone := rules.Clone()

	clone.Mapping[0].Destination = "changed"
	clone.Numeric[0].Fill = FillMedian
	clone.UpperTrim[0] = "changed"
	clone.Constants[0].Value = "INV"
	clone.Aliases.Values["AZUL"] = "PRETO"

	assert.Equal(t, DefaultRules(), rules)
}
