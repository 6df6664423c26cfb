package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var okReply = Reply(`{"explanation":"ok"}`)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		script    []Step
		wantKind  FailureKind
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []Step{okReply}, 0, false, 1},
		{"outage then success", []Step{Fail(Unavailable), okReply}, 0, false, 2},
		{"rate limit then success", []Step{FailAfter(time.Millisecond), okReply}, 0, false, 2},
		{"every attempt fails", []Step{Fail(Unavailable), Fail(Unavailable), Fail(Unavailable), okReply}, Unavailable, true, 3},
		{"truncation is final", []Step{Fail(Truncated), okReply}, Truncated, true, 1},
		{"rejected key is final", []Step{Fail(Unauthorized), okReply}, Unauthorized, true, 1},
		{"bad reply retried once", []Step{Reply(`nope`), Reply(`{"tip":"x"}`), okReply}, BadReply, true, 2},
		{"bad reply then success", []Step{Reply(`nope`), okReply}, 0, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{Schema: &tutorTestSchema})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if kind, ok := KindOf(err); !ok || kind != tt.wantKind {
					t.Fatalf("kind = %v (%v), want %v", kind, ok, tt.wantKind)
				}
			}
			if got := len(mock.Requests()); got != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, got)
			}
		})
	}
}

// contextProvider fails with its context's error, the way the SDKs do once
// a deadline passes.
type contextProvider struct{ calls int }

func (c *contextProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	c.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func (c *contextProvider) ModelID() string { return "ctx" }

func TestRetry_ContextErrorIsFinal(t *testing.T) {
	p := &contextProvider{}
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := WithRetry(p, fastRetry()).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("expected 1 call, got %d", p.calls)
	}
}

func TestRetry_CancelledWhileWaiting(t *testing.T) {
	mock := NewMockProvider(Fail(Unavailable), okReply)
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_GivesUpBeforeDeadline(t *testing.T) {
	mock := NewMockProvider(FailAfter(time.Minute), okReply)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	_, err := WithRetry(mock, fastRetry()).Generate(ctx, Request{})
	if kind, _ := KindOf(err); kind != RateLimited {
		t.Fatalf("expected the rate limit back, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("waited for a retry that could not finish in time")
	}
	if got := len(mock.Requests()); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestRetry_ZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(okReply)
	if _, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(mock.Requests()); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
}

func TestBackoff_CappedWithJitter(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}
	for attempt := range 6 {
		wait := r.backoff(attempt, errors.New("x"))
		if wait < 0 || wait > 360*time.Millisecond {
			t.Fatalf("attempt %d: wait %s out of range", attempt, wait)
		}
	}
	if got := r.backoff(0, &Error{Kind: RateLimited, RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Fatalf("expected Retry-After to win, got %s", got)
	}
}
