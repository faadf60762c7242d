package review

import (
	"context"
	"log/slog"

	"github.com/newsdesk-ai/newsdesk/internal/config"
	"github.com/newsdesk-ai/newsdesk/internal/llm"
)

// Editor grades a draft on editorial quality. When a prior fact-check
// verdict exists it is passed along as read-only context so the editor
// does not duplicate the fact-checker's work.
type Editor struct {
	reviewer
}

// NewEditor creates the editor role.
func NewEditor(provider llm.Provider, model string, logger *slog.Logger) *Editor {
	return &Editor{reviewer: newReviewer(provider, model, logger)}
}

// Review evaluates the article. A malformed model response produces a
// degraded not-ready verdict, never an error; only upstream call failures
// after retries surface as errors.
func (e *Editor) Review(ctx context.Context, article, topic string, prior *FactCheckVerdict) (*EditorVerdict, error) {
	raw, err := e.complete(ctx, editorSystemPrompt, editorPrompt(article, topic, prior))
	if err != nil {
		return nil, err
	}

	var verdict EditorVerdict
	if err := llm.ExtractJSON(raw, &verdict); err != nil {
		e.logger.Warn("editor response not parseable", "error", err)
		return &EditorVerdict{
			Grade:       "C",
			Ready:       false,
			ParseError:  err.Error(),
			RawResponse: truncate(raw, 2000),
		}, nil
	}

	// Ready is computed here, not trusted from the model.
	verdict.Ready = config.GateGrades[verdict.Grade]
	e.logger.Info("editor review complete", "grade", verdict.Grade, "ready", verdict.Ready,
		"critical_issues", len(verdict.CriticalIssues))
	return &verdict, nil
}
