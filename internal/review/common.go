package review

import (
	"context"
	"log/slog"

	"github.com/newsdesk-ai/newsdesk/internal/llm"
)

// reviewer holds what every panel role needs to call the model.
type reviewer struct {
	provider llm.Provider
	model    string
	logger   *slog.Logger
	sleep    llm.Sleeper
}

func newReviewer(provider llm.Provider, model string, logger *slog.Logger) reviewer {
	return reviewer{provider: provider, model: model, logger: logger, sleep: llm.WaitSleeper}
}

// complete issues one retry-wrapped generation call and returns the raw
// response text. Transient upstream failures are retried; anything else
// fails fast.
func (r *reviewer) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := llm.RetryTransient(ctx, r.logger, r.sleep, func() (*llm.CompletionResponse, error) {
		return r.provider.Complete(ctx, llm.CompletionRequest{
			Model:       r.model,
			Messages:    llm.Conversation(system, user),
			Temperature: 0.2,
			JSONMode:    true,
		})
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
