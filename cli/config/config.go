package config

import (
	"fmt"

	"github.com/pithecene-io/procwrap/types"
)

// Config represents a process-wrapper YAML profile.
// All values are optional and act as defaults for wrapper flags.
// CLI flags always override config values.
type Config struct {
	DiagnosticFormat                string `yaml:"diagnostic_format"`
	StopAfterMetadata               bool   `yaml:"stop_after_metadata"`
	RequireExplicitUnstableFeatures bool   `yaml:"require_explicit_unstable_features"`

	// Env is the base child environment. Env files override it.
	Env map[string]string `yaml:"env"`
	// Subst adds ${key} substitutions. --subst overrides it.
	Subst map[string]string `yaml:"subst"`

	Debug        bool   `yaml:"debug"`
	Report       string `yaml:"report"`
	ReportFormat string `yaml:"report_format"`
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := types.ParseDiagnosticFormat(c.DiagnosticFormat); err != nil {
		return fmt.Errorf("diagnostic_format: %w", err)
	}
	switch c.ReportFormat {
	case "", "json", "msgpack":
	default:
		return fmt.Errorf("report_format: unknown format %q (must be json or msgpack)", c.ReportFormat)
	}
	return nil
}
