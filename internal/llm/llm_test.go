package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newsdesk-ai/newsdesk/internal/logging"
)

func TestExtractJSONBare(t *testing.T) {
	var out struct {
		Confidence float64  `json:"confidence"`
		Gaps       []string `json:"gaps"`
	}
	raw := `{"confidence": 0.9, "gaps": ["supply chain data"]}`
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if out.Confidence != 0.9 || len(out.Gaps) != 1 {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	var out map[string]any
	raw := "Here is my assessment:\n```json\n{\"grade\": \"A\"}\n```\nLet me know."
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if out["grade"] != "A" {
		t.Errorf("grade: got %v, want A", out["grade"])
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	var out []string
	raw := "```\n[\"q1\", \"q2\"]\n```"
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if len(out) != 2 || out[0] != "q1" {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	var out map[string]any
	raw := `Sure! The verdict is {"ready_to_publish": false} as discussed.`
	if err := ExtractJSON(raw, &out); err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}
	if out["ready_to_publish"] != false {
		t.Errorf("unexpected result: %v", out)
	}
}

func TestExtractJSONGarbage(t *testing.T) {
	var out map[string]any
	if err := ExtractJSON("I could not produce a review this time.", &out); err == nil {
		t.Error("expected error for non-JSON input")
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("429 Too Many Requests"), true},
		{errors.New("model overloaded, try again"), true},
		{errors.New("Service Unavailable"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("invalid api key"), false},
		{errors.New("billing hard limit reached"), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryTransientExhaustion(t *testing.T) {
	var delays []time.Duration
	sleep := func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	calls := 0
	_, err := RetryTransient(context.Background(), logging.Discard(), sleep, func() (string, error) {
		calls++
		return "", errors.New("503 service unavailable")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
	if len(delays) != 2 || delays[0] != 10*time.Second || delays[1] != 20*time.Second {
		t.Errorf("expected delays [10s 20s], got %v", delays)
	}
}

func TestRetryTransientFailsFastOnOtherErrors(t *testing.T) {
	calls := 0
	_, err := RetryTransient(context.Background(), logging.Discard(), WaitSleeper, func() (string, error) {
		calls++
		return "", errors.New("invalid request: unknown model")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("non-transient errors must not be retried, got %d calls", calls)
	}
}

func TestRetryTransientSucceedsAfterRetry(t *testing.T) {
	sleep := func(context.Context, time.Duration) error { return nil }
	calls := 0
	got, err := RetryTransient(context.Background(), logging.Discard(), sleep, func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("overloaded")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 2 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}
