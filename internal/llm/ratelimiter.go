package llm

import (
	"context"
	"sync"
	"time"
)

const limiterPoll = 100 * time.Millisecond

// RateLimitedProvider throttles a Provider to a fixed request budget per
// minute. A single run fans out across writer, three reviewers and the
// research coordinator, so the cap is shared process-wide.
type RateLimitedProvider struct {
	inner Provider
	rpm   int

	mu     sync.Mutex
	budget int
	refill time.Time
}

// NewRateLimitedProvider wraps provider so at most rpm requests per
// minute reach the backend. Calls over budget block until a slot frees
// or the context is cancelled.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	return &RateLimitedProvider{
		inner:  provider,
		rpm:    rpm,
		budget: rpm,
		refill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.inner.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		if r.takeSlot() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(limiterPoll):
		}
	}
}

func (r *RateLimitedProvider) takeSlot() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	earned := int(now.Sub(r.refill).Seconds() * float64(r.rpm) / 60.0)
	if earned > 0 {
		r.budget = min(r.budget+earned, r.rpm)
		r.refill = now
	}
	if r.budget == 0 {
		return false
	}
	r.budget--
	return true
}
