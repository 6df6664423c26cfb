package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathquiz/internal/questions"
)

// Outcome records one answered question.
type Outcome struct {
	Question questions.Question `yaml:"question" json:"question"`
	Given    string             `yaml:"given" json:"given"`
	Correct  bool               `yaml:"correct" json:"correct"`
}

// Result is one session's ordered sequence of outcomes.
type Result struct {
	ID         string    `yaml:"id" json:"id"`
	StartedAt  time.Time `yaml:"started_at" json:"started_at"`
	FinishedAt time.Time `yaml:"finished_at,omitempty" json:"finished_at,omitempty"`
	Outcomes   []Outcome `yaml:"outcomes" json:"outcomes"`
}

// NewResult starts an empty session result.
func NewResult(now time.Time) *Result {
	return &Result{
		ID:        uuid.NewString(),
		StartedAt: now,
	}
}

// Add appends an outcome in draw order.
func (r *Result) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Record checks given against q, appends the outcome and returns it.
func (r *Result) Record(q *questions.Question, given string) Outcome {
	o := Outcome{
		Question: *q,
		Given:    given,
		Correct:  questions.CheckAnswer(q, given),
	}
	r.Add(o)
	return o
}

// Finish stamps the end time.
func (r *Result) Finish(now time.Time) {
	r.FinishedAt = now
}

// Total returns the number of answered questions.
func (r *Result) Total() int {
	return len(r.Outcomes)
}

// Correct returns the number of correct answers.
func (r *Result) Correct() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Correct {
			n++
		}
	}
	return n
}

// Duration returns the elapsed session time, or zero if unfinished.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
