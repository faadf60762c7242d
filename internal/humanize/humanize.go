// Package humanize applies the final style pass that strips residual
// machine-written cadence from an approved article.
package humanize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsdesk-ai/newsdesk/internal/llm"
)

const systemPrompt = `You are a line editor giving an article its final polish before
publication. Rewrite for a natural human voice: vary sentence rhythm, cut
formulaic transitions and hedging boilerplate, let the prose commit.
Do not change facts, quotes, citations, or the [Source: URL] format.
Output the full polished article only.`

// Humanizer performs the unconditional final style pass.
type Humanizer struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
	sleep    llm.Sleeper
}

// New creates a Humanizer.
func New(provider llm.Provider, model string, logger *slog.Logger) *Humanizer {
	return &Humanizer{provider: provider, model: model, logger: logger, sleep: llm.WaitSleeper}
}

// Humanize polishes the article. An empty model response keeps the input
// unchanged rather than losing the article at the last step.
func (h *Humanizer) Humanize(ctx context.Context, article, topic string) (string, error) {
	resp, err := llm.RetryTransient(ctx, h.logger, h.sleep, func() (*llm.CompletionResponse, error) {
		return h.provider.Complete(ctx, llm.CompletionRequest{
			Model:       h.model,
			Messages:    llm.Conversation(systemPrompt, fmt.Sprintf("Topic: %s\n\nArticle:\n\n%s", topic, article)),
			Temperature: 0.6,
		})
	})
	if err != nil {
		return "", fmt.Errorf("humanizing article: %w", err)
	}
	if resp.Content == "" {
		h.logger.Warn("humanizer returned empty output, keeping article as-is", "topic", topic)
		return article, nil
	}
	return resp.Content, nil
}
