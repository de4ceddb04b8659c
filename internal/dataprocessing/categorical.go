package dataprocessing

import (
	"strings"

	apperrors "tabclean/internal/errors"
	"tabclean/pkg/contracts/domain"
)

// CategoricalSummary reports what categorical normalization changed
type CategoricalSummary struct {
	NullsReplaced int
	AliasRemaps   int
}

// UpperTrim upper-cases then trims a text cell. Null cells become the
// upper-cased null text under the literal policy and stay empty under the
// empty policy. The second result reports whether the cell was null.
func UpperTrim(c domain.Cell, policy domain.NullPolicy, nullText string) (domain.Cell, bool) {
	if c.IsNull() {
		if policy == domain.NullEmpty {
			return domain.TextCell(""), true
		}
		return domain.TextCell(strings.TrimSpace(strings.ToUpper(nullText))), true
	}
	return domain.TextCell(strings.TrimSpace(strings.ToUpper(c.String()))), false
}

// ClusterLabel keeps the text before the first separator, trimmed. A value
// without the separator is returned trimmed.
func ClusterLabel(s, separator string) string {
	if separator != "" {
		if before, _, found := strings.Cut(s, separator); found {
			return strings.TrimSpace(before)
		}
	}
	return strings.TrimSpace(s)
}

// RemapAliases replaces values matching an alias key with the canonical label
func RemapAliases(values []string, aliases domain.AliasTable) ([]string, int) {
	out := make([]string, len(values))
	remapped := 0
	for i, v := range values {
		canonical, ok := aliases.Resolve(v)
		if ok && canonical != v {
			remapped++
		}
		out[i] = canonical
	}
	return out, remapped
}

// NormalizeCategorical applies, in order: upper-case/trim, cluster label
// extraction, constant assignment, and alias remapping.
func NormalizeCategorical(table *domain.Table, rules domain.Rules) (*domain.Table, CategoricalSummary, error) {
	var summary CategoricalSummary
	out := table.Clone()

	index := func(column string) (int, error) {
		idx, ok := out.Schema.Index(column)
		if !ok {
			return 0, apperrors.NewMissingColumnError(StageCategorical, column)
		}
		return idx, nil
	}

	for _, column := range rules.UpperTrim {
		idx, err := index(column)
		if err != nil {
			return nil, summary, err
		}
		for _, row := range out.Rows {
			cell, wasNull := UpperTrim(row[idx], rules.NullPolicy, rules.NullText)
			row[idx] = cell
			if wasNull {
				summary.NullsReplaced++
			}
		}
	}

	if rules.Cluster.Column != "" {
		idx, err := index(rules.Cluster.Column)
		if err != nil {
			return nil, summary, err
		}
		for _, row := range out.Rows {
			row[idx] = domain.TextCell(ClusterLabel(row[idx].String(), rules.Cluster.Separator))
		}
	}

	for _, constant := range rules.Constants {
		idx, err := index(constant.Column)
		if err != nil {
			return nil, summary, err
		}
		for _, row := range out.Rows {
			row[idx] = domain.TextCell(constant.Value)
		}
	}

	if rules.Aliases.Column != "" && len(rules.Aliases.Values) > 0 {
		idx, err := index(rules.Aliases.Column)
		if err != nil {
			return nil, summary, err
		}
		values := make([]string, len(out.Rows))
		for i, row := range out.Rows {
			values[i] = row[idx].String()
		}
		remapped, n := RemapAliases(values, rules.Aliases.Values)
		for i, row := range out.Rows {
			row[idx] = domain.TextCell(remapped[i])
		}
		summary.AliasRemaps = n
	}

	return out, summary, nil
}
