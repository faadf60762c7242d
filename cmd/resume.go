package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/research"
	"github.com/newsdesk-ai/newsdesk/internal/workflow"
	"github.com/newsdesk-ai/newsdesk/internal/writer"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <article_vN.md>",
	Short: "Resume a run from a saved article version",
	Long: `Resume picks up an interrupted or completed run from one of its saved
article versions. Any reviewer feedback saved alongside that version is
re-applied, and --feedback lets you inject your own notes, which take
priority over reviewer feedback for the next rewrite.`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringP("feedback", "m", "", "your own revision notes, applied before reviewer feedback")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()
	articlePath := args[0]
	feedback, _ := cmd.Flags().GetString("feedback")

	if _, err := os.Stat(articlePath); err != nil {
		return fmt.Errorf("article %s: %w", articlePath, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	logger := logging.New("resume")
	gateway := newGateway(ctx, cfg, logger)

	coordinator := research.NewCoordinator(research.Options{
		Provider: provider,
		Gateway:  gateway,
		Cache:    research.NewCache(cfg.CacheDir),
		Config:   cfg.Research,
		Model:    cfg.Model,
		Logger:   logging.New("research"),
	})
	drafter := writer.NewDrafter(provider, cfg.ModelFor("writer"), logging.New("writer"))
	store := workflow.OpenRunDir(filepath.Dir(articlePath))
	ctrl := buildController(cfg, provider, gateway, coordinator, drafter, store, logger)

	fmt.Printf("Resuming run %s from %s...\n", store.RunID(), filepath.Base(articlePath))
	outcome, err := ctrl.Resume(ctx, articlePath, feedback)
	if err != nil {
		return err
	}

	writeHTML(outcome, logger)
	printSummary(outcome, time.Since(start))
	return nil
}
