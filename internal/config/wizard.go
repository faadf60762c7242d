package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .newsdesk.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to newsdesk! Let's configure your editorial pipeline.")
	fmt.Println()

	cfg := DefaultConfig()

	modelPrompt := promptui.Select{
		Label: "Select default model",
		Items: []string{"gpt-4o", "gpt-4o-mini", "gpt-4"},
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model
	cfg.EditorModel = model
	cfg.WriterModel = model

	outputPrompt := promptui.Prompt{
		Label:   "Output directory",
		Default: cfg.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	cfg.OutputDir = outputDir

	confidencePrompt := promptui.Prompt{
		Label:   "Research confidence threshold (0-1)",
		Default: strconv.FormatFloat(cfg.Research.ConfidenceThreshold, 'f', 1, 64),
		Validate: func(s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v < 0 || v > 1 {
				return fmt.Errorf("must be a number between 0 and 1")
			}
			return nil
		},
	}
	confidenceStr, err := confidencePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("confidence threshold: %w", err)
	}
	cfg.Research.ConfidenceThreshold, _ = strconv.ParseFloat(confidenceStr, 64)

	if err := cfg.Save(".newsdesk.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration saved to .newsdesk.yml")
	fmt.Println("Set OPENAI_API_KEY (and optionally TAVILY_API_KEY) before running.")

	return cfg, nil
}
