package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NEWSDESK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: NEWSDESK_MODEL -> model, etc.
	if err := k.Load(env.Provider("NEWSDESK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "NEWSDESK_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Provider != ProviderOpenAI {
		return fmt.Errorf("invalid provider %q: must be openai", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Research.MaxIterations < 1 {
		return fmt.Errorf("research.max_iterations must be at least 1")
	}
	if c.Research.ConfidenceThreshold < 0 || c.Research.ConfidenceThreshold > 1 {
		return fmt.Errorf("research.confidence_threshold must be in [0, 1]")
	}
	if c.Revision.SafetyCap < 1 {
		return fmt.Errorf("revision.safety_cap must be at least 1")
	}
	if c.Revision.ResearchScoreThreshold < 0 || c.Revision.ResearchScoreThreshold > 100 {
		return fmt.Errorf("revision.research_score_threshold must be in [0, 100]")
	}
	return nil
}

// ModelFor returns the configured model for a named role, falling back to
// the default model when the role has no override.
func (c *Config) ModelFor(role string) string {
	switch role {
	case "editor":
		if c.EditorModel != "" {
			return c.EditorModel
		}
	case "writer":
		if c.WriterModel != "" {
			return c.WriterModel
		}
	case "fact_checker":
		if c.FactCheckModel != "" {
			return c.FactCheckModel
		}
	}
	return c.Model
}
