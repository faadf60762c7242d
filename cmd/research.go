package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/research"
)

var researchCmd = &cobra.Command{
	Use:   "research [topic]",
	Short: "Run the research phase only and print the findings",
	Args:  cobra.ExactArgs(1),
	RunE:  runResearch,
}

func init() {
	researchCmd.Flags().Bool("no-cache", false, "ignore cached research for the topic")
	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	topic := args[0]
	noCache, _ := cmd.Flags().GetBool("no-cache")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	logger := logging.New("research")

	coordinator := research.NewCoordinator(research.Options{
		Provider: provider,
		Gateway:  newGateway(ctx, cfg, logger),
		Cache:    research.NewCache(cfg.CacheDir),
		Config:   cfg.Research,
		Model:    cfg.Model,
		Logger:   logger,
	})

	result, err := coordinator.Research(ctx, topic, !noCache)
	if err != nil {
		return err
	}

	fmt.Printf("Topic:      %s\n", result.Topic)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	fmt.Printf("Iterations: %d\n", result.Iterations)
	fmt.Printf("Findings:   %d\n", len(result.Findings))
	if len(result.Synthesis.Gaps) > 0 {
		fmt.Printf("Open gaps:  %s\n", strings.Join(result.Synthesis.Gaps, "; "))
	}
	fmt.Println()
	for i, f := range result.Findings {
		fmt.Printf("%2d. [%s] %s\n", i+1, f.Source, f.Title)
		if f.URL != "" {
			fmt.Printf("    %s\n", f.URL)
		}
		content := f.Content
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		fmt.Printf("    %s\n", content)
	}
	return nil
}
