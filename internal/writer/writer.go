// Package writer produces and revises article drafts.
package writer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/newsdesk-ai/newsdesk/internal/llm"
	"github.com/newsdesk-ai/newsdesk/internal/research"
	"github.com/newsdesk-ai/newsdesk/internal/review"
)

// MergedIssue is one prioritized item of combined reviewer feedback.
type MergedIssue struct {
	Reviewer    string `json:"reviewer"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Correction  string `json:"correction,omitempty"`
}

// Feedback is everything a revision must address. UserFeedback, when
// present, takes absolute precedence over reviewer feedback.
type Feedback struct {
	Editor       *review.EditorVerdict
	FactCheck    *review.FactCheckVerdict
	Authenticity *review.AuthenticityVerdict
	Combined     []MergedIssue
	UserFeedback string
}

// Drafter writes and rewrites articles.
type Drafter struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
	sleep    llm.Sleeper
}

// NewDrafter creates a Drafter.
func NewDrafter(provider llm.Provider, model string, logger *slog.Logger) *Drafter {
	return &Drafter{provider: provider, model: model, logger: logger, sleep: llm.WaitSleeper}
}

// Draft writes the first version of an article from research findings.
func (d *Drafter) Draft(ctx context.Context, topic string, findings []research.Finding) (string, error) {
	d.logger.Info("drafting article", "topic", topic, "findings", len(findings))

	resp, err := llm.RetryTransient(ctx, d.logger, d.sleep, func() (*llm.CompletionResponse, error) {
		return d.provider.Complete(ctx, llm.CompletionRequest{
			Model:       d.model,
			Messages:    llm.Conversation(draftSystemPrompt, draftPrompt(topic, findings)),
			Temperature: 0.7,
		})
	})
	if err != nil {
		return "", fmt.Errorf("drafting article: %w", err)
	}
	if resp.Content == "" {
		return "", fmt.Errorf("draft for %q came back empty", topic)
	}
	return resp.Content, nil
}

// Revise rewrites the article to address the combined feedback. Every
// flagged item must be acted on; user feedback outranks reviewer feedback
// wherever they conflict.
func (d *Drafter) Revise(ctx context.Context, article string, feedback *Feedback, topic string) (string, error) {
	d.logger.Info("revising article", "topic", topic,
		"issues", len(feedback.Combined), "user_feedback", feedback.UserFeedback != "")

	resp, err := llm.RetryTransient(ctx, d.logger, d.sleep, func() (*llm.CompletionResponse, error) {
		return d.provider.Complete(ctx, llm.CompletionRequest{
			Model:       d.model,
			Messages:    llm.Conversation(reviseSystemPrompt, revisePrompt(article, feedback, topic)),
			Temperature: 0.5,
		})
	})
	if err != nil {
		return "", fmt.Errorf("revising article: %w", err)
	}
	if resp.Content == "" {
		d.logger.Warn("revision came back empty, keeping previous version", "topic", topic)
		return article, nil
	}
	return resp.Content, nil
}
