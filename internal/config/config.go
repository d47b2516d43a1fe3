// Package config loads the engine's YAML configuration, mirroring the
// Config/LoadConfig/DefaultConfig shape cmd/sqlparser/main.go consumes in
// the teacher repo — same degrade-to-defaults behavior, same dependency
// (gopkg.in/yaml.v3), rebound to this engine's own knobs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine's full runtime configuration.
type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Load        LoadConfig        `yaml:"load"`
	Output      OutputConfig      `yaml:"output"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// EngineConfig holds knobs affecting catalog/schema behavior.
type EngineConfig struct {
	CaseSensitiveIdentifiers bool `yaml:"case_sensitive_identifiers"`
	DefaultVarcharLength     int  `yaml:"default_varchar_length"`
}

// LoadConfig holds CSV ingest separators (§6.2). The engine does not read
// them: LOAD DATA takes its separators from its own FIELDS/LINES clauses,
// and the parser defaults them to ',' and '\n'.
type LoadConfig struct {
	FieldSeparator string `yaml:"field_separator"`
	LineSeparator  string `yaml:"line_separator"`
}

// OutputConfig selects the result presentation format (§6.3).
type OutputConfig struct {
	Format string `yaml:"format"`
}

// DiagnosticsConfig controls pkg/monitor's alert rules. Enabled switches
// them on or off; NestedLoopWarnRows is not read, and the nested-loop
// threshold stays fixed at 10000 rows in pkg/plan's bottleneck analysis.
type DiagnosticsConfig struct {
	Enabled            bool `yaml:"enabled"`
	NestedLoopWarnRows int  `yaml:"nested_loop_warn_rows"`
}

// DefaultConfig returns the engine's built-in defaults, used whenever no
// config file is given or it fails to load.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			CaseSensitiveIdentifiers: false,
			DefaultVarcharLength:     1,
		},
		Load: LoadConfig{
			FieldSeparator: ",",
			LineSeparator:  "\n",
		},
		Output: OutputConfig{
			Format: "json",
		},
		Diagnostics: DiagnosticsConfig{
			Enabled:            true,
			NestedLoopWarnRows: 100000,
		},
	}
}

// LoadConfig reads and parses a YAML config file at path, returning
// DefaultConfig() untouched when path is empty (no config file requested).
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %q: %w", path, err)
	}
	return cfg, nil
}
