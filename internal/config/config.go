package config

import (
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Logical fields a source column can be mapped to.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldDescription = "description"
)

// Config represents the nda2ynab.yaml configuration.
type Config struct {
	Files  FilesConfig  `yaml:"files"`
	Schema SchemaConfig `yaml:"schema"`
	Output OutputConfig `yaml:"output"`
}

// FilesConfig controls which directory entries are treated as exports.
type FilesConfig struct {
	// Pattern must have two capture groups: account ID, then timestamp.
	Pattern          string   `yaml:"pattern"`
	TimestampLayouts []string `yaml:"timestamp_layouts"` // Go time layouts, tried in order
}

// SchemaConfig describes the bank's CSV export layout.
type SchemaConfig struct {
	Delimiter   string          `yaml:"delimiter"`
	PendingDate string          `yaml:"pending_date"` // date value marking a pending transaction
	Columns     []ColumnMapping `yaml:"columns"`
}

// ColumnMapping maps a header in the export to a logical field.
type ColumnMapping struct {
	Source string `yaml:"source"`
	Field  string `yaml:"field"`
}

// OutputConfig controls where the YNAB CSV is written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Load reads a config file from disk. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration for Nordea Finland exports.
func Default() *Config {
	return &Config{
		Files: FilesConfig{
			Pattern: `^.+ ([A-Z]{2}\d{2} \d{4} \d{4} \d{4} \d{2}) - (.+)\.csv$`,
			TimestampLayouts: []string{
				"2006.01.02 15.04",
				"2006-01-02 15.04.05",
			},
		},
		Schema: SchemaConfig{
			Delimiter:   ";",
			PendingDate: "Varaus",
			Columns: []ColumnMapping{
				{Source: "Kirjauspäivä", Field: FieldDate},
				{Source: "Määrä", Field: FieldAmount},
				{Source: "Otsikko", Field: FieldDescription},
			},
		},
		Output: OutputConfig{
			Path: "out.csv",
		},
	}
}

// Validate checks that the config can drive a conversion.
func (c *Config) Validate() error {
	re, err := regexp.Compile(c.Files.Pattern)
	if err != nil {
		return fmt.Errorf("files.pattern: %w", err)
	}
	if n := re.NumSubexp(); n != 2 {
		return fmt.Errorf("files.pattern: expected 2 capture groups, got %d", n)
	}
	if len(c.Files.TimestampLayouts) == 0 {
		return fmt.Errorf("files.timestamp_layouts: at least one layout required")
	}

	if utf8.RuneCountInString(c.Schema.Delimiter) != 1 {
		return fmt.Errorf("schema.delimiter: must be a single character, got %q", c.Schema.Delimiter)
	}

	seen := make(map[string]bool)
	for _, col := range c.Schema.Columns {
		switch col.Field {
		case FieldDate, FieldAmount, FieldDescription:
		default:
			return fmt.Errorf("schema.columns: unknown field %q", col.Field)
		}
		if col.Source == "" {
			return fmt.Errorf("schema.columns: field %q has no source column", col.Field)
		}
		if seen[col.Field] {
			return fmt.Errorf("schema.columns: field %q mapped more than once", col.Field)
		}
		seen[col.Field] = true
	}
	for _, f := range []string{FieldDate, FieldAmount, FieldDescription} {
		if !seen[f] {
			return fmt.Errorf("schema.columns: field %q is not mapped", f)
		}
	}

	if c.Output.Path == "" {
		return fmt.Errorf("output.path: must not be empty")
	}
	return nil
}

// DelimiterRune returns the schema delimiter as a rune.
func (s SchemaConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}

// SourceColumn returns the header name mapped to field, or "".
func (s SchemaConfig) SourceColumn(field string) string {
	for _, col := range s.Columns {
		if col.Field == field {
			return col.Source
		}
	}
	return ""
}
