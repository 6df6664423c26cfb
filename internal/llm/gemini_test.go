package llm

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "description": "why"},
			"steps": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
			"mood": map[string]any{"type": "string", "enum": []any{"calm", "cheerful"}},
		},
		"required": []string{"explanation"},
	}

	s := geminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(s.Properties))
	}
	if s.Properties["explanation"].Description != "why" {
		t.Fatalf("description not carried over: %+v", s.Properties["explanation"])
	}
	if s.Properties["steps"].Items.Type != genai.TypeInteger {
		t.Fatalf("expected INTEGER items, got %s", s.Properties["steps"].Items.Type)
	}
	if len(s.Properties["mood"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(s.Properties["mood"].Enum))
	}
	if len(s.Required) != 1 || s.Required[0] != "explanation" {
		t.Fatalf("expected required [explanation], got %v", s.Required)
	}
}

func TestGeminiError(t *testing.T) {
	err := geminiError(genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"})
	if kind, ok := KindOf(err); !ok || kind != RateLimited {
		t.Fatalf("expected a rate limit, got %v", err)
	}
	err = geminiError(errors.New("dial tcp: refused"))
	var e *Error
	if !errors.As(err, &e) || e.Kind != Unavailable || e.Provider != ProviderGemini {
		t.Fatalf("expected gemini unavailable, got %v", err)
	}
}

func TestStringList(t *testing.T) {
	if got := stringList([]any{"a", 1, "b"}); len(got) != 2 {
		t.Fatalf("expected non-strings dropped, got %v", got)
	}
	if got := stringList(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
