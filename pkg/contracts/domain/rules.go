package domain

// ColumnPair maps one source column to its destination name
type ColumnPair struct {
	Source      string `yaml:"source" validate:"required"`
	Destination string `yaml:"destination" validate:"required"`
}

// ColumnMapping is the ordered source → destination mapping. It defines
// both the required input columns and the output schema.
type ColumnMapping []ColumnPair

// Sources returns the source column names in mapping order
func (m ColumnMapping) Sources() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Source
	}
	return out
}

// Destinations returns the destination column names in mapping order
func (m ColumnMapping) Destinations() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Destination
	}
	return out
}

// AliasTable maps a normalized label to its canonical label
type AliasTable map[string]string

// Resolve returns the canonical label for v, or v itself when no alias exists
func (a AliasTable) Resolve(v string) (string, bool) {
	if canonical, ok := a[v]; ok {
		return canonical, true
	}
	return v, false
}

// FillPolicy decides the value of a missing numeric cell
type FillPolicy string

const (
	FillZero   FillPolicy = "zero"
	FillMedian FillPolicy = "median"
)

// NullPolicy decides how null categorical cells are normalized
type NullPolicy string

const (
	// NullLiteral stringifies nulls to the configured literal before
	// upper-casing, so a null category becomes "MISSING".
	NullLiteral NullPolicy = "literal"
	// NullEmpty keeps null categories empty in the output.
	NullEmpty NullPolicy = "empty"
)

// Discriminator selects the rows of one business segment
type Discriminator struct {
	Column string `yaml:"column" validate:"required"`
	Value  string `yaml:"value" validate:"required"`
}

// NumericColumn is a destination column coerced to numbers
type NumericColumn struct {
	Column string     `yaml:"column" validate:"required"`
	Fill   FillPolicy `yaml:"fill" validate:"required,oneof=zero median"`
}

// ConstantColumn is a destination column overwritten with a literal
type ConstantColumn struct {
	Column string `yaml:"column" validate:"required"`
	Value  string `yaml:"value"`
}

// ClusterRule keeps the text before the first separator of a column
type ClusterRule struct {
	Column    string `yaml:"column"`
	Separator string `yaml:"separator"`
}

// AliasRule remaps the values of one column through an alias table
type AliasRule struct {
	Column string     `yaml:"column"`
	Values AliasTable `yaml:"values"`
}

// Rules is the immutable business configuration of a cleaning run
type Rules struct {
	Discriminator Discriminator    `yaml:"discriminator"`
	Mapping       ColumnMapping    `yaml:"mapping" validate:"required,min=1,dive"`
	Numeric       []NumericColumn  `yaml:"numeric" validate:"dive"`
	UpperTrim     []string         `yaml:"upper_trim" validate:"dive,required"`
	Cluster       ClusterRule      `yaml:"cluster"`
	Constants     []ConstantColumn `yaml:"constants" validate:"dive"`
	Aliases       AliasRule        `yaml:"aliases"`
	NullPolicy    NullPolicy       `yaml:"null_policy" validate:"omitempty,oneof=literal empty"`
	NullText      string           `yaml:"null_text"`
}

// DefaultRules returns the SACADA segment rules for the sales export
func DefaultRules() Rules {
	return Rules{
		Discriminator: Discriminator{Column: "GRIFFE", Value: "SACADA"},
		Mapping: ColumnMapping{
			{Source: "VENDA_QT_TOTAL", Destination: "Y_Venda_Total_Colecao"},
			{Source: "VENDA_QT_30_DIAS", Destination: "X_Venda_30_Dias"},
			{Source: "GRUPO_PRODUTO", Destination: "X_Categoria"},
			{Source: "FILIAL", Destination: "X_Cluster_Loja"},
			{Source: "DESC_COR", Destination: "X_Cor_Agrupada"},
			{Source: "PV_ORIGINAL", Destination: "X_Preco_Cheio"},
			{Source: "COLECAO", Destination: "X_Tipo_Colecao"},
			{Source: "PRODUTO", Destination: "ID_Produto"},
			{Source: "DESC_PRODUTO", Destination: "Descricao_Produto"},
		},
		Numeric: []NumericColumn{
			{Column: "Y_Venda_Total_Colecao", Fill: FillZero},
			{Column: "X_Venda_30_Dias", Fill: FillZero},
			{Column: "X_Preco_Cheio", Fill: FillMedian},
		},
		UpperTrim: []string{"X_Categoria", "X_Cor_Agrupada"},
		Cluster:   ClusterRule{Column: "X_Cluster_Loja", Separator: "-"},
		Constants: []ConstantColumn{
			{Column: "X_Tipo_Colecao", Value: "PV"},
		},
		Aliases: AliasRule{
			Column: "X_Cor_Agrupada",
			Values: AliasTable{
				"PRETO INTENSO": "PRETO",
				"OFF WHITE":     "BRANCO",
				"BRANCO OFF":    "BRANCO",
			},
		},
		NullPolicy: NullLiteral,
		NullText:   "missing",
	}
}

// Clone returns a deep copy
func (r Rules) Clone() Rules {
	out := r
	out.Mapping = append(ColumnMapping(nil), r.Mapping...)
	out.Numeric = append([]NumericColumn(nil), r.Numeric...)
	out.UpperTrim = append([]string(nil), r.UpperTrim...)
	out.Constants = append([]ConstantColumn(nil), r.Constants...)
	if r.Aliases.Values != nil {
		out.Aliases.Values = make(AliasTable, len(r.Aliases.Values))
		for k, v := range r.Aliases.Values {
			out.Aliases.Values[k] = v
		}
	}
	return out
}
