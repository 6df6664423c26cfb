package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/mathquiz/internal/store"
)

// recordingEvents is an in-memory store.EventRepo.
type recordingEvents struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingEvents) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *recordingEvents) GetLLMEvent(context.Context, int) (*store.LLMRequestEventRecord, error) {
	return nil, nil
}

func TestMockProvider_Script(t *testing.T) {
	mock := NewMockProvider(
		Reply(`{"explanation":"first"}`).WithUsage(10, 5),
		Fail(RateLimited),
	)

	resp, err := mock.Generate(context.Background(), Request{System: "sys", Prompt: "one"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.Total() != 15 || resp.Model != "mock" {
		t.Fatalf("unexpected response %+v", resp)
	}

	_, err = mock.Generate(context.Background(), Request{})
	if kind, ok := KindOf(err); !ok || kind != RateLimited {
		t.Fatalf("expected a rate limit, got: %v", err)
	}

	_, err = mock.Generate(context.Background(), Request{})
	if kind, ok := KindOf(err); !ok || kind != Unavailable {
		t.Fatalf("expected unavailable once the script ran out, got: %v", err)
	}

	reqs := mock.Requests()
	if len(reqs) != 3 || reqs[0].System != "sys" || reqs[0].Prompt != "one" {
		t.Fatalf("requests not recorded: %+v", reqs)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(Reply(`{"tip":"only"}`))
	_, err := mock.Generate(context.Background(), Request{Schema: &tutorTestSchema})
	var e *Error
	if !errors.As(err, &e) || e.Kind != BadReply || string(e.Reply) != `{"tip":"only"}` {
		t.Fatalf("expected a bad reply, got: %T (%v)", err, err)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: Unauthorized, Provider: ProviderAnthropic, Err: errors.New("401 invalid x-api-key")}
	if got := err.Error(); got != "anthropic: unauthorized: 401 invalid x-api-key" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&Error{Kind: Truncated, Provider: ProviderMock}).Error(); got != "mock: truncated" {
		t.Fatalf("unexpected message %q", got)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("plain errors have no kind")
	}
}

func TestLoggingProvider_RecordsEvent(t *testing.T) {
	events := &recordingEvents{}
	mock := NewMockProvider(Reply(`{"explanation":"5 + 5 is 10."}`).WithUsage(12, 8))
	p := WithLogging(mock, ProviderMock, events)

	_, err := p.Generate(context.Background(), Request{
		Purpose: "tutor-explain",
		System:  "be kind",
		Prompt:  "why is 5 + 5 = 10?",
		Schema:  &tutorTestSchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.events))
	}
	e := events.events[0]
	if e.Purpose != "tutor-explain" || !e.Success || e.InputTokens != 12 {
		t.Fatalf("unexpected event %+v", e)
	}
	for _, want := range []string{"[system]", "be kind", "[prompt]", "why is 5 + 5 = 10?", "[schema: test-tutor-explanation]"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Fatalf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
	if e.ResponseBody != `{"explanation":"5 + 5 is 10."}` {
		t.Fatalf("unexpected response body %q", e.ResponseBody)
	}
}

func TestLoggingProvider_FailuresAreRecordedAndReturned(t *testing.T) {
	events := &recordingEvents{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(), ProviderMock, events)

	_, err := p.Generate(context.Background(), Request{})
	if kind, ok := KindOf(err); !ok || kind != Unavailable {
		t.Fatalf("expected the provider error, got %v", err)
	}
	if len(events.events) != 1 || events.events[0].Success || events.events[0].ErrorMessage == "" {
		t.Fatalf("expected a failed event, got %+v", events.events)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: ProviderConfig{APIKey: "sk"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: ProviderConfig{APIKey: "g"}}, false},
		{"unknown", Config{Provider: "clippy"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("MATHQUIZ_LLM_PROVIDER", "openai")
	t.Setenv("MATHQUIZ_OPENAI_API_KEY", "sk-env")
	t.Setenv("MATHQUIZ_OPENAI_MODEL", "gpt-4o")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-env" || cfg.OpenAI.Model != "gpt-4o" {
		t.Fatalf("env not applied: %+v", cfg.OpenAI)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Fatalf("other providers must keep defaults, got %q", cfg.Anthropic.Model)
	}
}

func TestConfig_Discover(t *testing.T) {
	for _, name := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(name, "")
	}

	cfg := DefaultConfig()
	if cfg.Discover() {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENROUTER_API_KEY", "sk-or")
	if !cfg.Discover() {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" {
		t.Fatalf("expected anthropic first, got %q", cfg.Provider)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error with no provider")
	}
	if _, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil); err == nil {
		t.Fatal("expected error without API key")
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"
	p, err := NewProvider(context.Background(), cfg, &recordingEvents{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*RetryProvider); !ok {
		t.Fatalf("expected retry to be outermost, got %T", p)
	}
	if p.ModelID() != "google/gemini-2.0-flash-exp" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}
	logged := p.(*RetryProvider).inner.(*LoggingProvider)
	if op := logged.inner.(*OpenAIProvider); op.name != ProviderOpenRouter {
		t.Fatalf("expected failures labelled openrouter, got %q", op.name)
	}
}
