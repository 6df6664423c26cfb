// Package llm talks to hosted language models. It is used by the tutor to
// explain wrong answers and is never required for a quiz to run.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a reply to a single-turn request.
type Provider interface {
	// Generate sends req and returns the model's reply. Failures are
	// reported as *Error unless ctx ended first. When req.Schema is set the
	// reply is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider sends requests to.
	ModelID() string
}

// Request is one system prompt plus one user prompt. The tutor never holds
// a conversation, so there are no earlier turns to carry.
type Request struct {
	// Purpose labels the request in the event log, e.g. "tutor-explain".
	Purpose string

	System    string
	Prompt    string
	Schema    *Schema
	MaxTokens int

	// Temperature in [0, 1]; zero leaves the provider default.
	Temperature float64
}

// Schema is a JSON Schema the reply must satisfy.
type Schema struct {
	// Name is kebab-case, e.g. "tutor-explanation". It doubles as the
	// cache key for the compiled schema.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is validated JSON when a schema was requested, raw text
	// otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string
}

// Usage counts the tokens one request consumed.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }
