package review

import (
	"context"
	"log/slog"

	"github.com/newsdesk-ai/newsdesk/internal/llm"
)

const authenticityReadyFloor = 70

// Authenticity detects machine-written stylistic signatures in a draft.
type Authenticity struct {
	reviewer
}

// NewAuthenticity creates the authenticity reviewer role.
func NewAuthenticity(provider llm.Provider, model string, logger *slog.Logger) *Authenticity {
	return &Authenticity{reviewer: newReviewer(provider, model, logger)}
}

// Review scores how human the article reads.
func (a *Authenticity) Review(ctx context.Context, article, topic string) (*AuthenticityVerdict, error) {
	raw, err := a.complete(ctx, authenticitySystemPrompt, authenticityPrompt(article, topic))
	if err != nil {
		return nil, err
	}

	var verdict AuthenticityVerdict
	if err := llm.ExtractJSON(raw, &verdict); err != nil {
		a.logger.Warn("authenticity response not parseable", "error", err)
		return &AuthenticityVerdict{
			Score:       0,
			Ready:       false,
			ParseError:  err.Error(),
			RawResponse: truncate(raw, 2000),
		}, nil
	}

	highSeverity := 0
	for _, p := range verdict.Patterns {
		if p.Severity == SeverityHigh {
			highSeverity++
		}
	}
	verdict.Ready = verdict.Score >= authenticityReadyFloor && highSeverity == 0
	a.logger.Info("authenticity review complete", "score", verdict.Score, "ready", verdict.Ready,
		"patterns", len(verdict.Patterns))
	return &verdict, nil
}
