package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	apperrors "tabclean/internal/errors"
	"tabclean/pkg/contracts/domain"
)

// rulesFile is the on-disk shape of a rules override. Every section is
// optional; absent sections keep the built-in defaults.
type rulesFile struct {
	Discriminator *domain.Discriminator    `yaml:"discriminator"`
	Mapping       domain.ColumnMapping     `yaml:"mapping"`
	Numeric       *[]domain.NumericColumn  `yaml:"numeric"`
	UpperTrim     *[]string                `yaml:"upper_trim"`
	Cluster       *domain.ClusterRule      `yaml:"cluster"`
	Constants     *[]domain.ConstantColumn `yaml:"constants"`
	Aliases       *aliasesSection          `yaml:"aliases"`
	NullPolicy    domain.NullPolicy        `yaml:"null_policy"`
	NullText      *string                  `yaml:"null_text"`
}

// aliasesSection extends the default alias table unless Replace is set
type aliasesSection struct {
	Column  *string           `yaml:"column"`
	Values  domain.AliasTable `yaml:"values"`
	Replace bool              `yaml:"replace"`
}

// LoadRules reads a YAML rules file and overlays it on the default rules
func LoadRules(path string) (domain.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Rules{}, apperrors.NewConfigError(fmt.Sprintf("failed to read rules file %q", path), err)
	}
	return ParseRules(data)
}

// ParseRules overlays YAML rules on the defaults
func ParseRules(data []byte) (domain.Rules, error) {
	var file rulesFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return domain.Rules{}, apperrors.NewConfigError("failed to parse rules", err)
	}

	rules := domain.DefaultRules()
	if file.Discriminator != nil {
		rules.Discriminator = *file.Discriminator
	}
	if len(file.Mapping) > 0 {
		rules.Mapping = file.Mapping
	}
	if file.Numeric != nil {
		rules.Numeric = *file.Numeric
	}
	if file.UpperTrim != nil {
		rules.UpperTrim = *file.UpperTrim
	}
	if file.Cluster != nil {
		rules.Cluster = *file.Cluster
		if rules.Cluster.Column != "" && rules.Cluster.Separator == "" {
			rules.Cluster.Separator = "-"
		}
	}
	if file.Constants != nil {
		rules.Constants = *file.Constants
	}
	if file.Aliases != nil {
		if file.Aliases.Column != nil {
			rules.Aliases.Column = *file.Aliases.Column
		}
		if file.Aliases.Replace || rules.Aliases.Values == nil {
			rules.Aliases.Values = domain.AliasTable{}
		}
		for k, v := range file.Aliases.Values {
			rules.Aliases.Values[k] = v
		}
	}
	if file.NullPolicy != "" {
		rules.NullPolicy = file.NullPolicy
	}
	if file.NullText != nil {
		rules.NullText = *file.NullText
	}

	return rules, nil
}

// ValidateRules checks that the rules describe a consistent pipeline
func ValidateRules(rules domain.Rules) error {
	if err := newValidator().Struct(rules); err != nil {
		return apperrors.NewConfigError("rules validation failed", err)
	}

	destinations := make(map[string]bool, len(rules.Mapping))
	for _, pair := range rules.Mapping {
		if destinations[pair.Destination] {
			return apperrors.NewConfigError(fmt.Sprintf("duplicate destination column %q", pair.Destination), nil)
		}
		destinations[pair.Destination] = true
	}

	requireDestination := func(section, column string) error {
		if !destinations[column] {
			return apperrors.NewConfigError(fmt.Sprintf("%s column %q is not a mapped destination", section, column), nil)
		}
		return nil
	}

	for _, n := range rules.Numeric {
		if err := requireDestination("numeric", n.Column); err != nil {
			return err
		}
	}
	for _, c := range rules.UpperTrim {
		if err := requireDestination("upper_trim", c); err != nil {
			return err
		}
	}
	if rules.Cluster.Column != "" {
		if err := requireDestination("cluster", rules.Cluster.Column); err != nil {
			return err
		}
		if rules.Cluster.Separator == "" {
			return apperrors.NewConfigError("cluster separator must not be empty", nil)
		}
	}
	for _, c := range rules.Constants {
		if err := requireDestination("constants", c.Column); err != nil {
			return err
		}
	}
	if rules.Aliases.Column != "" {
		if err := requireDestination("aliases", rules.Aliases.Column); err != nil {
			return err
		}
	}

	// A canonical label that is itself an alias key would make remapping
	// depend on how many times it runs.
	for key, canonical := range rules.Aliases.Values {
		if next, ok := rules.Aliases.Values[canonical]; ok && next != canonical {
			return apperrors.NewConfigError(
				fmt.Sprintf("alias %q maps to %q which is itself remapped to %q", key, canonical, next), nil)
		}
	}

	return nil
}
