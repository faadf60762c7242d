package llm

import "context"

// Provider is the single seam between the editorial agents and a model
// backend. Every writer, reviewer and researcher talks through it, which
// keeps the agents testable with scripted responses.
type Provider interface {
	// Complete sends one completion request and returns the normalized
	// response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the backend, used in logs.
	Name() string
}
