package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: "gpt-4o-mini"}
}

func openaiReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var got openai.ChatCompletionRequest
	reply := openaiReply(`{"explanation":"12 - 5 is 7.","tip":"Add back to check."}`, "stop")
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		reply(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a patient math tutor.",
		Prompt:    "Explain 12 - 5.",
		Schema:    &tutorTestSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != openai.ChatMessageRoleSystem ||
		got.Messages[1].Role != openai.ChatMessageRoleUser || got.Messages[1].Content != "Explain 12 - 5." {
		t.Fatalf("expected system then user message, got %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.JSONSchema == nil || got.ResponseFormat.JSONSchema.Name != tutorTestSchema.Name {
		t.Fatalf("expected json_schema response format, got %+v", got.ResponseFormat)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, openaiReply(`{"expl`, "length"))
	_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 3})
	if kind, ok := KindOf(err); !ok || kind != Truncated {
		t.Fatalf("expected a truncated reply, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "x", "model": "gpt-4o-mini", "choices": []any{}})
	})
	_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 10})
	if kind, ok := KindOf(err); !ok || kind != BadReply {
		t.Fatalf("expected a bad reply, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	failing := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "server_error", "message": "nope"},
			})
		}
	}

	tests := []struct {
		status int
		want   FailureKind
	}{
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusForbidden, Unauthorized},
		{http.StatusBadGateway, Unavailable},
	}
	for _, tt := range tests {
		p := newTestOpenAIProvider(t, failing(tt.status))
		_, err := p.Generate(context.Background(), Request{Prompt: "x", MaxTokens: 10})
		var e *Error
		if !errors.As(err, &e) || e.Kind != tt.want || e.Provider != ProviderOpenAI {
			t.Fatalf("status %d: expected %v from openai, got: %T (%v)", tt.status, tt.want, err, err)
		}
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(ProviderConfig{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected error without API key")
	}
}
