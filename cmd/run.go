package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/humanize"
	"github.com/newsdesk-ai/newsdesk/internal/llm"
	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/render"
	"github.com/newsdesk-ai/newsdesk/internal/research"
	"github.com/newsdesk-ai/newsdesk/internal/review"
	"github.com/newsdesk-ai/newsdesk/internal/sources"
	"github.com/newsdesk-ai/newsdesk/internal/workflow"
	"github.com/newsdesk-ai/newsdesk/internal/writer"
)

var runCmd = &cobra.Command{
	Use:   "run [topic]",
	Short: "Research, draft, and revise an article to publication",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Bool("no-cache", false, "ignore cached research for the topic")
	runCmd.Flags().Bool("html", true, "also render the final article to HTML")
	runCmd.Flags().Int("max-revisions", 0, "override the configured revision safety cap")
	runCmd.Flags().String("output", "", "override the configured output directory")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()
	topic := args[0]
	noCache, _ := cmd.Flags().GetBool("no-cache")
	wantHTML, _ := cmd.Flags().GetBool("html")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if maxRevisions, _ := cmd.Flags().GetInt("max-revisions"); maxRevisions > 0 {
		cfg.Revision.SafetyCap = maxRevisions
	}
	if outputDir, _ := cmd.Flags().GetString("output"); outputDir != "" {
		cfg.OutputDir = outputDir
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	logger := logging.New("run")
	gateway := newGateway(ctx, cfg, logger)

	coordinator := research.NewCoordinator(research.Options{
		Provider: provider,
		Gateway:  gateway,
		Cache:    research.NewCache(cfg.CacheDir),
		Config:   cfg.Research,
		Model:    cfg.Model,
		Logger:   logging.New("research"),
	})

	fmt.Printf("Researching %q...\n", topic)
	result, err := coordinator.Research(ctx, topic, !noCache)
	if err != nil {
		return err
	}
	fmt.Printf("Research complete: %d findings, confidence %.2f after %d iteration(s)\n",
		len(result.Findings), result.Confidence, result.Iterations)

	drafter := writer.NewDrafter(provider, cfg.ModelFor("writer"), logging.New("writer"))
	fmt.Println("Drafting article...")
	article, err := drafter.Draft(ctx, topic, result.Findings)
	if err != nil {
		return err
	}

	store, err := workflow.NewRunDir(cfg.OutputDir, topic)
	if err != nil {
		return err
	}
	ctrl := buildController(cfg, provider, gateway, coordinator, drafter, store, logger)

	fmt.Println("Entering editorial review...")
	outcome, err := ctrl.Run(ctx, article, topic, result.Findings)
	if err != nil {
		return err
	}

	if wantHTML {
		writeHTML(outcome, logger)
	}
	printSummary(outcome, time.Since(start))
	return nil
}

// buildController wires the full review panel and revision loop. Shared
// by run and resume.
func buildController(cfg *config.Config, provider llm.Provider, gateway *sources.Gateway, coordinator *research.Coordinator, drafter *writer.Drafter, store *workflow.RunStore, logger *slog.Logger) *workflow.Controller {
	return workflow.NewController(workflow.Options{
		Editor:       review.NewEditor(provider, cfg.ModelFor("editor"), logging.New("editor")),
		FactChecker:  review.NewFactChecker(provider, cfg.ModelFor("fact_checker"), gateway, logging.New("fact_checker")),
		Authenticity: review.NewAuthenticity(provider, cfg.Model, logging.New("authenticity")),
		Drafter:      drafter,
		Researcher:   coordinator,
		Humanizer:    humanize.New(provider, cfg.Model, logging.New("humanize")),
		Store:        store,
		History:      openHistory(cfg, logger),
		Config:       cfg.Revision,
		Logger:       logging.New("workflow"),
	})
}

func printSummary(outcome *workflow.Result, elapsed time.Duration) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Run complete in %s\n", elapsed.Round(time.Second))
	fmt.Printf("  Topic:              %s\n", outcome.Topic)
	fmt.Printf("  Revisions:          %d\n", outcome.TotalRevisions)
	fmt.Printf("  Editor grade:       %s\n", outcome.EditorGrade)
	fmt.Printf("  Fact-check score:   %d/100\n", outcome.FactCheckScore)
	fmt.Printf("  Authenticity score: %d/100\n", outcome.AuthenticityScore)
	fmt.Printf("  Ready to publish:   %v\n", outcome.ReadyToPublish)
	if outcome.Capped {
		fmt.Println("  Revision cap reached; give the article a manual pass before publishing.")
	}
	fmt.Printf("  Final article:      %s\n", outcome.FinalArticlePath)
	fmt.Println(strings.Repeat("=", 60))
}

func writeHTML(outcome *workflow.Result, logger *slog.Logger) {
	renderer, err := render.New()
	if err != nil {
		logger.Warn("html renderer unavailable", "error", err)
		return
	}
	dir := filepath.Dir(outcome.FinalArticlePath)
	path, err := renderer.WriteArticleHTML(dir, outcome.FinalArticle, render.Title(outcome.FinalArticle, outcome.Topic))
	if err != nil {
		logger.Warn("rendering final article failed", "error", err)
		return
	}
	fmt.Printf("Rendered HTML: %s\n", path)
}
