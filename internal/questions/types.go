package questions

import (
	"github.com/abhisek/mathquiz/internal/sampler"
)

// Question is one concrete, generated question ready for display.
type Question struct {
	// ID is stable across sessions so unanswered questions can be re-asked.
	ID string `yaml:"id" json:"id"`

	// Type is the name of the Kind that produced the question.
	Type string `yaml:"type" json:"type"`

	// Prompt is shown to the learner, e.g. "345 + 278 = ".
	Prompt string `yaml:"prompt" json:"prompt"`

	// Explanation tells the learner what to do with the prompt.
	Explanation string `yaml:"explanation" json:"explanation"`

	// Answer is the canonical expected answer:
	// "623", "3/4", "<", or "3 8 13 18".
	Answer string `yaml:"answer" json:"answer"`

	// AnswerType selects the comparison CheckAnswer uses.
	AnswerType AnswerType `yaml:"answer_type" json:"answer_type"`

	// Figure is an optional visual aid drawn under the prompt.
	Figure string `yaml:"figure,omitempty" json:"figure,omitempty"`
}

// AnswerType describes how an answer is represented and compared.
type AnswerType string

const (
	AnswerTypeInteger  AnswerType = "integer"  // "623"
	AnswerTypeFraction AnswerType = "fraction" // "3/4"
	AnswerTypeSymbol   AnswerType = "symbol"   // "<", ">", "="
	AnswerTypeSequence AnswerType = "sequence" // "3 8 13 18"
)

// Kind declares one question type: its name, its options, and how to
// generate an instance.
type Kind interface {
	// Name is unique within a Registry. It namespaces the kind's options
	// (flag --<name>-<option>, config key questions.<name>.<option>) and is
	// the key mastery statistics are grouped by.
	Name() string

	// Explain returns the instruction shown before the prompt.
	Explain() string

	// Options declares the configurable parameters of the kind.
	Options() []OptionSpec

	// Generate builds one question from resolved options. It may only use
	// the sampler for randomness.
	Generate(s *sampler.Sampler, opts Options) (*Question, error)
}
