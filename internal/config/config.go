package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	apperrors "tabclean/internal/errors"
	"tabclean/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Rules     RulesConfig     `yaml:"rules" envconfig:"RULES"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the raw export to read.
//
// Leaf fields carry no envconfig tag: a tagged field also falls back to the
// bare tag name, so a tag like PATH would read the process search path.
type InputConfig struct {
	Path      string   `yaml:"path" default:"prim_ver_24(n tratado).csv" validate:"required"`
	Delimiter string   `yaml:"delimiter" default:";" validate:"len=1"`
	Encodings []string `yaml:"encodings" default:"latin1,utf-8" validate:"min=1,dive,encoding"`
}

// OutputConfig describes the cleaned files to write
type OutputConfig struct {
	Path      string `yaml:"path" default:"dataset_tratado_pv24.csv" validate:"required"`
	Delimiter string `yaml:"delimiter" default:"," validate:"len=1"`
	XLSXPath  string `yaml:"xlsx_path" split_words:"true"`
}

// RulesConfig points at an optional business rules file
type RulesConfig struct {
	File       string `yaml:"file"`
	NullPolicy string `yaml:"null_policy" split_words:"true" validate:"omitempty,oneof=literal empty"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" default:"json" validate:"oneof=json text"`
	Output      string `yaml:"output" default:"console" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" split_words:"true" default:"logs/tabclean.log"`
	Development bool   `yaml:"development" default:"false"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string  `yaml:"trace_exporter" split_words:"true" default:"none" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" default:"1" validate:"gte=0,lte=1"`
	MetricsFile   string  `yaml:"metrics_file" split_words:"true"`
	Environment   string  `yaml:"environment" default:"production"`
}

// Load loads configuration from a .env file (when present) and environment variables
func Load() (*Config, error) {
	// A missing .env is the normal case; only a malformed one is an error.
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, apperrors.NewConfigError("failed to load "+DotEnvFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct constraints on the configuration
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// BuildRules resolves the business rules for this configuration: the
// defaults, overlaid with the rules file when one is configured.
func (c *Config) BuildRules() (domain.Rules, error) {
	rules := domain.DefaultRules()
	if c.Rules.File != "" {
		loaded, err := LoadRules(c.Rules.File)
		if err != nil {
			return domain.Rules{}, err
		}
		rules = loaded
	}
	if c.Rules.NullPolicy != "" {
		rules.NullPolicy = domain.NullPolicy(c.Rules.NullPolicy)
	}
	if err := ValidateRules(rules); err != nil {
		return domain.Rules{}, err
	}
	return rules, nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:      DefaultInputPath,
			Delimiter: ";",
			Encodings: []string{"latin1", "utf-8"},
		},
		Output: OutputConfig{
			Path:      DefaultOutputPath,
			Delimiter: ",",
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			SampleRatio:   1,
			Environment:   "production",
		},
	}
}

// newValidator returns a validator with the project's custom tags registered
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		return IsSupportedEncoding(fl.Field().String())
	})
	return v
}

// IsSupportedEncoding reports whether name is an input encoding the loader understands
func IsSupportedEncoding(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "latin1", "latin-1", "iso-8859-1", "windows-1252", "cp1252", "utf-8", "utf8":
		return true
	}
	return false
}

// Summary returns a short description of the effective input/output settings
func (c *Config) Summary() string {
	return fmt.Sprintf("input=%q (%s, delimiter %q) output=%q", c.Input.Path,
		strings.Join(c.Input.Encodings, "→"), c.Input.Delimiter, c.Output.Path)
}
