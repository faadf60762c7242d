// Package sources is the uniform gateway to external search and lookup
// capabilities. Lookup operations degrade to empty results on failure and
// log the cause; they never push transport errors up into the research or
// review loops.
package sources

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/vectordb"
)

const userAgent = "newsdesk-editorial/1.0"

// Gateway provides access to web search, news search, encyclopedia lookup,
// the vector knowledge base, page extraction, and URL verification.
type Gateway struct {
	client    *http.Client
	tavilyKey string
	kb        vectordb.KnowledgeStore
	cache     *VerifyCache
	logger    *slog.Logger

	// Endpoint overrides for tests.
	tavilyURL string
	ddgURL    string
	newsURL   string
	wikiURL   string
}

// Options configures a Gateway.
type Options struct {
	TavilyAPIKey string
	Knowledge    vectordb.KnowledgeStore
	Logger       *slog.Logger
	Timeout      time.Duration
}

// NewGateway creates a Gateway with its own verification cache.
func NewGateway(opts Options) *Gateway {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Gateway{
		client:    &http.Client{Timeout: timeout},
		tavilyKey: opts.TavilyAPIKey,
		kb:        opts.Knowledge,
		cache:     NewVerifyCache(),
		logger:    opts.Logger,
		tavilyURL: "https://api.tavily.com/search",
		ddgURL:    "https://html.duckduckgo.com/html/",
		newsURL:   "https://news.google.com/rss/search",
		wikiURL:   "https://en.wikipedia.org/api/rest_v1/page/summary/",
	}
}

// QueryKnowledgeBase retrieves the most relevant knowledge-base documents
// for the query. Returns an empty slice when the knowledge base is absent,
// empty, or failing.
func (g *Gateway) QueryKnowledgeBase(ctx context.Context, query string, maxResults int) []Record {
	if g.kb == nil {
		g.logger.Debug("knowledge base not configured, skipping query")
		return nil
	}

	results, err := g.kb.Search(ctx, query, maxResults)
	if err != nil {
		g.logger.Warn("knowledge base query failed", "query", query, "error", err)
		return nil
	}

	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, Record{
			Title:   r.Document.Metadata.Title,
			Content: r.Document.Content,
			URL:     r.Document.Metadata.SourcePath,
			Score:   float64(r.Similarity),
			Type:    "knowledge_base",
		})
	}
	return records
}
