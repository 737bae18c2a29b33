package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLOverridesAppliesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edascan.yaml")
	content := "maxRowsAnalyzed: 2000\nmemoryThresholdMB: 256.5\nenableMultivariate: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}

	cfg := &AppConfig{MaxRowsAnalyzed: 999, MemoryThresholdMB: 1, EnableMultivariate: false, EnableMermaidCharts: true, DefaultSeed: 1}
	if err := loadYAMLOverrides(path, cfg); err != nil {
		t.Fatalf("loadYAMLOverrides() error = %v", err)
	}

	if cfg.MaxRowsAnalyzed != 2000 {
		t.Errorf("MaxRowsAnalyzed = %d, want 2000", cfg.MaxRowsAnalyzed)
	}
	if cfg.MemoryThresholdMB != 256.5 {
		t.Errorf("MemoryThresholdMB = %v, want 256.5", cfg.MemoryThresholdMB)
	}
	if !cfg.EnableMultivariate {
		t.Error("expected EnableMultivariate to be overridden to true")
	}
	if !cfg.EnableMermaidCharts {
		t.Error("EnableMermaidCharts should be untouched by a YAML file that doesn't mention it")
	}
	if cfg.DefaultSeed != 1 {
		t.Errorf("DefaultSeed = %d, want untouched value 1", cfg.DefaultSeed)
	}
}

func TestLoadYAMLOverridesMissingFileIsNotError(t *testing.T) {
	cfg := &AppConfig{MaxRowsAnalyzed: 42}
	if err := loadYAMLOverrides(filepath.Join(t.TempDir(), "does-not-exist.yaml"), cfg); err != nil {
		t.Errorf("expected no error for a missing file, got %v", err)
	}
	if cfg.MaxRowsAnalyzed != 42 {
		t.Errorf("cfg should be untouched, MaxRowsAnalyzed = %d", cfg.MaxRowsAnalyzed)
	}
}

func TestLoadYAMLOverridesMalformedFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("maxRowsAnalyzed: [this is not valid"), 0o644); err != nil {
		t.Fatalf("writing temp yaml: %v", err)
	}

	cfg := &AppConfig{}
	if err := loadYAMLOverrides(path, cfg); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
