// Package config loads parse settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/auditscore/internal/audit"
	"github.com/dshills/auditscore/internal/normalize"
	"github.com/dshills/auditscore/internal/report"
)

// Config holds the settings a parse run can take from a file. Command-line
// flags that are set explicitly override these values.
type Config struct {
	Format         string `yaml:"format"`
	Sheet          string `yaml:"sheet"`
	AuditType      string `yaml:"audit_type"`
	DateOrder      string `yaml:"date_order"`
	Redact         bool   `yaml:"redact"`
	FatalThreshold int    `yaml:"fatal_threshold"`
	FailOnFatal    bool   `yaml:"fail_on_fatal"`
	Breakdown      bool   `yaml:"breakdown"`
	Export         string `yaml:"export"`
	LogMode        string `yaml:"log_mode"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Format:         "json",
		DateOrder:      string(normalize.DayFirst),
		Redact:         true,
		FatalThreshold: report.DefaultFatalThreshold,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if strings.TrimSpace(string(data)) != "" {
		dec := yaml.NewDecoder(strings.NewReader(string(data)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
	}
	return cfg.Validate()
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "md":
	default:
		return fmt.Errorf("format: must be json or md, got %q", c.Format)
	}
	if c.AuditType != "" && !audit.ParseType(c.AuditType).Valid() {
		return fmt.Errorf("audit_type: unknown type %q", c.AuditType)
	}
	if c.DateOrder != "" && !normalize.DateOrder(c.DateOrder).Valid() {
		return fmt.Errorf("date_order: must be %s or %s, got %q", normalize.DayFirst, normalize.MonthFirst, c.DateOrder)
	}
	if c.FatalThreshold < audit.MinScore || c.FatalThreshold > audit.MaxScore {
		return fmt.Errorf("fatal_threshold: %d out of range [%d,%d]", c.FatalThreshold, audit.MinScore, audit.MaxScore)
	}
	return nil
}

// Type returns the configured audit type, or "" to detect from headers.
func (c *Config) Type() audit.Type {
	if c.AuditType == "" {
		return ""
	}
	return audit.ParseType(c.AuditType)
}

// Dates returns the configured numeric date order, day first when unset.
func (c *Config) Dates() normalize.DateOrder {
	if c.DateOrder == "" {
		return normalize.DayFirst
	}
	return normalize.DateOrder(c.DateOrder)
}
