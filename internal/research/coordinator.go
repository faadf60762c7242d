package research

import (
	"context"
	"log/slog"
	"time"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/llm"
	"github.com/newsdesk-ai/newsdesk/internal/logging"
	"github.com/newsdesk-ai/newsdesk/internal/sources"
)

// Gateway is the subset of the source gateway the coordinator uses.
type Gateway interface {
	SearchWeb(ctx context.Context, query string, maxResults int) []sources.Record
	SearchNews(ctx context.Context, query, country, lang string, maxResults int) []sources.Record
	SearchEncyclopedia(ctx context.Context, query string) (*sources.Summary, error)
	QueryKnowledgeBase(ctx context.Context, query string, maxResults int) []sources.Record
	FetchAndExtract(ctx context.Context, pageURL string) (*sources.Page, error)
}

// minWebContentChars is the snippet length below which a web result is
// enriched by crawling its page. Search APIs return a paragraph or more;
// the DuckDuckGo fallback returns one-line teasers.
const minWebContentChars = 400

// Coordinator runs the iterative research loop for a topic.
type Coordinator struct {
	provider llm.Provider
	gateway  Gateway
	cache    *Cache
	cfg      config.ResearchConfig
	model    string
	logger   *slog.Logger
	sleep    llm.Sleeper
}

// Options configures a Coordinator. Cache may be nil to disable caching.
type Options struct {
	Provider llm.Provider
	Gateway  Gateway
	Cache    *Cache
	Config   config.ResearchConfig
	Model    string
	Logger   *slog.Logger
}

// NewCoordinator creates a research coordinator.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Coordinator{
		provider: opts.Provider,
		gateway:  opts.Gateway,
		cache:    opts.Cache,
		cfg:      opts.Config,
		model:    opts.Model,
		logger:   opts.Logger,
		sleep:    llm.WaitSleeper,
	}
}

// Research produces a ResearchResult for the topic. With useCache set, a
// previously cached result for the same normalized topic is returned
// unchanged without any source lookups.
func (c *Coordinator) Research(ctx context.Context, topic string, useCache bool) (*Result, error) {
	if useCache && c.cache != nil {
		if cached, ok := c.cache.Get(topic); ok {
			c.logger.Info("research cache hit", "topic", topic)
			return cached, nil
		}
	}

	questions := c.analyzeTopic(ctx, topic)
	c.logger.Info("starting research", "topic", topic, "questions", len(questions))

	result := &Result{Topic: topic}
	for iteration := 1; iteration <= c.cfg.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations = iteration

		if iteration == 1 {
			c.collectBackground(ctx, topic, result)
		}

		for _, question := range questions {
			result.Findings = append(result.Findings, c.collect(ctx, question)...)
		}

		result.Synthesis = c.synthesize(ctx, topic, result.Findings)
		result.Confidence = result.Synthesis.Confidence
		c.logger.Info("research iteration complete",
			"iteration", iteration,
			"findings", len(result.Findings),
			"confidence", result.Confidence,
			"gaps", len(result.Synthesis.Gaps))

		if result.Confidence >= c.cfg.ConfidenceThreshold || len(result.Synthesis.Gaps) == 0 {
			break
		}
		questions = result.Synthesis.Gaps
	}

	result.Timestamp = time.Now().UTC()
	if c.cache != nil {
		if err := c.cache.Put(result); err != nil {
			c.logger.Warn("caching research result failed", "topic", topic, "error", err)
		}
	}
	return result, nil
}

// collectBackground fetches encyclopedic context and recent news coverage
// for the topic. Both lookups are best-effort.
func (c *Coordinator) collectBackground(ctx context.Context, topic string, result *Result) {
	summary, err := c.gateway.SearchEncyclopedia(ctx, topic)
	if err != nil {
		c.logger.Debug("background lookup skipped", "topic", topic, "error", err)
	} else {
		result.Findings = append(result.Findings, Finding{
			Source:  SourceEncyclopedia,
			Title:   summary.Title,
			Content: summary.Extract,
			URL:     summary.URL,
			Type:    "background",
		})
	}

	for _, r := range c.gateway.SearchNews(ctx, topic, "", "", c.cfg.MaxResultsPerQuery) {
		result.Findings = append(result.Findings, Finding{
			Source:  SourceNews,
			Title:   r.Title,
			Content: r.Content,
			URL:     r.URL,
			Type:    r.Type,
		})
	}
}

// collect answers one research question from the knowledge base and the web.
func (c *Coordinator) collect(ctx context.Context, question string) []Finding {
	var findings []Finding

	for _, r := range c.gateway.QueryKnowledgeBase(ctx, question, c.cfg.MaxResultsPerQuery) {
		findings = append(findings, Finding{
			Source:  SourceKnowledgeBase,
			Title:   r.Title,
			Content: r.Content,
			URL:     r.URL,
			Score:   r.Score,
			Type:    r.Type,
		})
	}

	for _, r := range c.gateway.SearchWeb(ctx, question, c.cfg.MaxResultsPerQuery) {
		if r.Type == "error" {
			continue
		}
		findings = append(findings, Finding{
			Source:  SourceWeb,
			Title:   r.Title,
			Content: c.enrichContent(ctx, r),
			URL:     r.URL,
			Score:   r.Score,
			Type:    r.Type,
		})
	}

	return findings
}

// enrichContent crawls a web result's page when the search snippet is too
// thin to support synthesis. Crawl failures keep the snippet.
func (c *Coordinator) enrichContent(ctx context.Context, r sources.Record) string {
	if len(r.Content) >= minWebContentChars || r.URL == "" {
		return r.Content
	}
	page, err := c.gateway.FetchAndExtract(ctx, r.URL)
	if err != nil || page == nil {
		c.logger.Debug("page extraction skipped", "url", r.URL, "error", err)
		return r.Content
	}
	if len(page.Content) > len(r.Content) {
		return page.Content
	}
	return r.Content
}

type questionsPayload struct {
	Questions []string `json:"questions"`
}

// analyzeTopic generates the initial research questions. On any failure it
// falls back to a single question equal to the topic verbatim.
func (c *Coordinator) analyzeTopic(ctx context.Context, topic string) []string {
	resp, err := llm.RetryTransient(ctx, c.logger, c.sleep, func() (*llm.CompletionResponse, error) {
		return c.provider.Complete(ctx, llm.CompletionRequest{
			Model:       c.model,
			Messages:    llm.Conversation(analysisSystemPrompt, analysisPrompt(topic)),
			Temperature: 0.3,
			JSONMode:    true,
		})
	})
	if err != nil {
		c.logger.Warn("topic analysis failed, using topic as sole question", "topic", topic, "error", err)
		return []string{topic}
	}

	var payload questionsPayload
	if err := llm.ExtractJSON(resp.Content, &payload); err != nil || len(payload.Questions) == 0 {
		c.logger.Warn("topic analysis returned no usable questions", "topic", topic)
		return []string{topic}
	}
	return payload.Questions
}

// synthesize scores the accumulated findings. On any failure it returns a
// permissive default that lets the loop terminate.
func (c *Coordinator) synthesize(ctx context.Context, topic string, findings []Finding) Synthesis {
	resp, err := llm.RetryTransient(ctx, c.logger, c.sleep, func() (*llm.CompletionResponse, error) {
		return c.provider.Complete(ctx, llm.CompletionRequest{
			Model:       c.model,
			Messages:    llm.Conversation(synthesisSystemPrompt, synthesisPrompt(topic, findings)),
			Temperature: 0.2,
			JSONMode:    true,
		})
	})
	if err != nil {
		c.logger.Warn("synthesis failed, using default assessment", "topic", topic, "error", err)
		return Synthesis{Confidence: 0.5}
	}

	var synthesis Synthesis
	if err := llm.ExtractJSON(resp.Content, &synthesis); err != nil {
		c.logger.Warn("synthesis response not parseable, using default assessment", "topic", topic, "error", err)
		return Synthesis{Confidence: 0.5}
	}
	return synthesis
}
