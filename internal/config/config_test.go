package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Output.Format != "json" {
		t.Fatalf("expected default output format json, got %q", cfg.Output.Format)
	}
	if cfg.Load.FieldSeparator != "," || cfg.Load.LineSeparator != "\n" {
		t.Fatalf("unexpected default load separators: %+v", cfg.Load)
	}
	if !cfg.Diagnostics.Enabled {
		t.Fatal("expected diagnostics enabled by default")
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\"): %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "output:\n  format: table\nload:\n  field_separator: \";\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Output.Format != "table" {
		t.Fatalf("expected overridden format table, got %q", cfg.Output.Format)
	}
	if cfg.Load.FieldSeparator != ";" {
		t.Fatalf("expected overridden field separator ';', got %q", cfg.Load.FieldSeparator)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Load.LineSeparator != "\n" {
		t.Fatalf("expected untouched default line separator, got %q", cfg.Load.LineSeparator)
	}
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
