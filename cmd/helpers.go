package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/embeddings"
	"github.com/newsdesk-ai/newsdesk/internal/history"
	"github.com/newsdesk-ai/newsdesk/internal/llm"
	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/sources"
	"github.com/newsdesk-ai/newsdesk/internal/vectordb"
)

// defaultRPM caps request throughput against the generation API across
// the whole run.
const defaultRPM = 60

// loadConfig loads and validates the config, providing a friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `newsdesk init` to create a config file", err)
	}
	return cfg, nil
}

// newProvider creates the rate-limited LLM provider from config.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(provider, defaultRPM), nil
}

// newEmbedder creates the embedder used by the knowledge base.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for embeddings")
	}
	return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
}

// loadKnowledge opens the persisted knowledge base if one exists. A
// missing knowledge base is not an error; research degrades to web and
// news sources only.
func loadKnowledge(ctx context.Context, cfg *config.Config, logger *slog.Logger) vectordb.KnowledgeStore {
	if _, err := os.Stat(cfg.KnowledgeDir); err != nil {
		logger.Debug("no knowledge base directory, skipping", "dir", cfg.KnowledgeDir)
		return nil
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		logger.Warn("knowledge base unavailable", "error", err)
		return nil
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		logger.Warn("knowledge base unavailable", "error", err)
		return nil
	}
	if err := store.Load(ctx, cfg.KnowledgeDir); err != nil {
		logger.Warn("loading knowledge base failed", "dir", cfg.KnowledgeDir, "error", err)
		return nil
	}
	logger.Info("knowledge base loaded", "documents", store.Count())
	return store
}

// newGateway builds the source gateway. The Tavily key is optional; the
// gateway cascades to DuckDuckGo without it.
func newGateway(ctx context.Context, cfg *config.Config, logger *slog.Logger) *sources.Gateway {
	return sources.NewGateway(sources.Options{
		TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),
		Knowledge:    loadKnowledge(ctx, cfg, logger),
		Logger:       logging.New("sources"),
	})
}

// openHistory opens the revision history database. Failure degrades to no
// audit trail rather than blocking the run.
func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	db, err := history.Open(cfg.HistoryDB)
	if err != nil {
		logger.Warn("history database unavailable", "path", cfg.HistoryDB, "error", err)
		return nil
	}
	return history.NewStore(db)
}
