package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newsdesk-ai/newsdesk/internal/ingest"
	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/progress"
	"github.com/newsdesk-ai/newsdesk/internal/vectordb"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Index local documents into the knowledge base",
	Long: `Ingest walks a directory of notes and documents, splits them into
chunks, embeds them, and persists the knowledge base so that research
can query your own material alongside web sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	dir := args[0]

	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("directory %s: %w", dir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return err
	}
	logger := logging.New("ingest")

	// Merge into an existing knowledge base rather than replacing it.
	if _, err := os.Stat(cfg.KnowledgeDir); err == nil {
		if err := store.Load(ctx, cfg.KnowledgeDir); err != nil {
			logger.Warn("loading existing knowledge base failed, starting fresh", "error", err)
		} else {
			fmt.Printf("Loaded existing knowledge base: %d documents\n", store.Count())
		}
	}

	ing := ingest.New(ingest.Options{
		Store:    store,
		Include:  cfg.Ingest.Include,
		Exclude:  cfg.Ingest.Exclude,
		Reporter: progress.NewReporter(),
		Logger:   logger,
	})

	stats, err := ing.IngestDir(ctx, dir, cfg.KnowledgeDir)
	if err != nil {
		return err
	}
	fmt.Printf("Ingested %d file(s), %d chunk(s) into %s\n", stats.Files, stats.Chunks, cfg.KnowledgeDir)
	return nil
}
