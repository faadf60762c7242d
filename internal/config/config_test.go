package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Research.MaxIterations != 6 {
		t.Errorf("expected default max_iterations 6, got %d", cfg.Research.MaxIterations)
	}
	if cfg.Research.ConfidenceThreshold != 0.8 {
		t.Errorf("expected default confidence_threshold 0.8, got %v", cfg.Research.ConfidenceThreshold)
	}
	if cfg.Revision.SafetyCap != 999 {
		t.Errorf("expected default safety_cap 999, got %d", cfg.Revision.SafetyCap)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.newsdesk.yml")

	original := DefaultConfig()
	original.Model = "gpt-4o-mini"
	original.OutputDir = "articles"
	original.Research.MaxIterations = 3
	original.Revision.SafetyCap = 10

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.OutputDir != original.OutputDir {
		t.Errorf("output_dir: got %q, want %q", loaded.OutputDir, original.OutputDir)
	}
	if loaded.Research.MaxIterations != 3 {
		t.Errorf("max_iterations: got %d, want 3", loaded.Research.MaxIterations)
	}
	if loaded.Revision.SafetyCap != 10 {
		t.Errorf("safety_cap: got %d, want 10", loaded.Revision.SafetyCap)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load of missing file should fall back to defaults, got %v", err)
	}
	if loaded.Model != DefaultConfig().Model {
		t.Errorf("expected default model, got %q", loaded.Model)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "bedrock" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero iterations", func(c *Config) { c.Research.MaxIterations = 0 }},
		{"confidence above 1", func(c *Config) { c.Research.ConfidenceThreshold = 1.5 }},
		{"zero safety cap", func(c *Config) { c.Revision.SafetyCap = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestModelFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "gpt-4o"
	cfg.FactCheckModel = "gpt-4o-mini"
	cfg.EditorModel = ""

	if got := cfg.ModelFor("fact_checker"); got != "gpt-4o-mini" {
		t.Errorf("fact_checker model: got %q, want gpt-4o-mini", got)
	}
	if got := cfg.ModelFor("editor"); got != "gpt-4o" {
		t.Errorf("editor model should fall back to default, got %q", got)
	}
}

func TestGradeSets(t *testing.T) {
	// The in-loop gate is stricter than the terminal report.
	if !GateGrades["A"] || !GateGrades["A+"] {
		t.Error("gate grades must include A and A+")
	}
	if GateGrades["A-"] {
		t.Error("A- must not pass the in-loop gate")
	}
	if !FinalGrades["A-"] {
		t.Error("A- counts as ready in the terminal report")
	}
}
