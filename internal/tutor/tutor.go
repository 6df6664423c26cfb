// Package tutor explains wrong answers with a language model.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/abhisek/mathquiz/internal/llm"
	"github.com/abhisek/mathquiz/internal/questions"
)

// Purpose labels tutor requests in the LLM event log.
const Purpose = "tutor-explain"

// Config holds tutor request settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Explain call. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.4,
		Timeout:     20 * time.Second,
	}
}

// Explanation is the tutor's reply.
type Explanation struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// String renders the explanation for display.
func (e *Explanation) String() string {
	if e.Tip == "" {
		return e.Explanation
	}
	return e.Explanation + "\nTip: " + e.Tip
}

// ErrDisabled is returned after the provider rejected the API key. The
// provider is not asked again for the life of the Service.
var ErrDisabled = errors.New("tutor disabled: API key rejected")

// Service asks a provider to explain wrong answers.
type Service struct {
	provider llm.Provider
	cfg      Config
	disabled atomic.Bool
}

// New creates a tutor backed by provider.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Explain returns a short explanation of why given is not the answer to q.
func (s *Service) Explain(ctx context.Context, q *questions.Question, given string) (*Explanation, error) {
	if s.disabled.Load() {
		return nil, ErrDisabled
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	prompt, err := buildPrompt(q, given)
	if err != nil {
		return nil, fmt.Errorf("build tutor prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		Purpose:     Purpose,
		System:      systemPrompt,
		Prompt:      prompt,
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		if kind, ok := llm.KindOf(err); ok && kind == llm.Unauthorized {
			s.disabled.Store(true)
		}
		return nil, fmt.Errorf("tutor explanation failed: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse tutor response: %w", err)
	}
	out.Explanation = strings.TrimSpace(out.Explanation)
	out.Tip = strings.TrimSpace(out.Tip)
	return &out, nil
}

const systemPrompt = `You are a warm, encouraging arithmetic tutor for children aged 8 to 12. A learner answered a question incorrectly.

Instructions:
- Explain the correct working in two or three short sentences a child can follow.
- If the learner's answer hints at a common slip (a carry, a swapped digit, the wrong operation), name it gently.
- Never scold. Never reveal anything beyond this one question.
- Give one short tip they can use next time.`

var userTemplate = template.Must(template.New("tutor").Parse(`Question type: {{.Type}}
Instruction shown: {{.Instruction}}
Question: {{.Prompt}}
Correct answer: {{.Answer}}
Learner's answer: {{.Given}}
Answer format: {{.AnswerType}}
`))

func buildPrompt(q *questions.Question, given string) (string, error) {
	given = strings.TrimSpace(given)
	if given == "" {
		given = "(no answer)"
	}

	var buf bytes.Buffer
	err := userTemplate.Execute(&buf, map[string]any{
		"Type":        q.Type,
		"Instruction": q.Explanation,
		"Prompt":      strings.TrimSpace(q.Prompt),
		"Answer":      q.Answer,
		"Given":       given,
		"AnswerType":  q.AnswerType,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
