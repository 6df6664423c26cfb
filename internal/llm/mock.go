package llm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Step is one scripted outcome of a MockProvider call.
type Step struct {
	text  string
	usage Usage
	fail  *Error
}

// Reply scripts a model reply. It goes through the same schema checks as a
// hosted provider's reply.
func Reply(text string) Step {
	return Step{text: text}
}

// WithUsage sets the token counts reported for a scripted reply.
func (s Step) WithUsage(in, out int) Step {
	s.usage = Usage{InputTokens: in, OutputTokens: out}
	return s
}

// Fail scripts a failure of the given kind.
func Fail(kind FailureKind) Step {
	return Step{fail: &Error{Kind: kind, Provider: ProviderMock}}
}

// FailAfter scripts a rate limit that asks the caller to wait d.
func FailAfter(d time.Duration) Step {
	return Step{fail: &Error{Kind: RateLimited, Provider: ProviderMock, RetryAfter: d}}
}

var errScriptDone = errors.New("no scripted replies left")

// MockProvider plays back a script and records every request. Once the
// script runs out it reports itself unavailable.
type MockProvider struct {
	mu       sync.Mutex
	script   []Step
	requests []Request
}

// NewMockProvider creates a MockProvider that plays steps in order.
func NewMockProvider(steps ...Step) *MockProvider {
	return &MockProvider{script: steps}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		return nil, &Error{Kind: Unavailable, Provider: ProviderMock, Err: errScriptDone}
	}

	step := m.script[0]
	m.script = m.script[1:]
	if step.fail != nil {
		return nil, step.fail
	}

	content, err := finish(ProviderMock, req, step.text, false)
	if err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: step.usage, Model: ProviderMock}, nil
}

func (m *MockProvider) ModelID() string {
	return ProviderMock
}

// Requests returns the requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
