// Package config holds the analyzer's configuration surface (spec §3
// "configuration", §6 "Configuration flags"). Unlike the teacher's
// internal/config, which exposes package-level mutable globals
// (IsTestMode, IsLSPMode) read from anywhere, this is a plain struct
// threaded explicitly into the Analyzer — see DESIGN.md's Open
// Question entry on why the global-flag idiom was not carried over.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyzerConfig mirrors spec §3 Analyzer state "configuration" and
// §6 "Configuration flags" verbatim.
type AnalyzerConfig struct {
	StrictMode       bool `yaml:"strict_mode"`
	AllowUnsafe      bool `yaml:"allow_unsafe"`
	CheckOwnership   bool `yaml:"check_ownership"`
	ValidateFFI      bool `yaml:"validate_ffi"`
	EnableWarnings   bool `yaml:"enable_warnings"`
	TestMode         bool `yaml:"test_mode"`
	MaxErrors        int  `yaml:"max_errors"`
	ColorDiagnostics bool `yaml:"color_diagnostics"`
}

// Default returns the configuration the analyzer uses when none is
// supplied: warnings on, a generous but finite error cap, colorized
// diagnostics left to the renderer's own TTY detection.
func Default() AnalyzerConfig {
	return AnalyzerConfig{
		EnableWarnings:   true,
		MaxErrors:        200,
		ColorDiagnostics: true,
	}
}

// Load reads an AnalyzerConfig from a YAML file at path, starting from
// Default() so an absent field keeps its default rather than zeroing.
func Load(path string) (AnalyzerConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
