package session

import "github.com/abhisek/mathquiz/internal/questions"

// History is everything stored for one learner: past sessions in order and
// questions that were generated but never answered.
type History struct {
	Results    []Result             `yaml:"results" json:"results"`
	Unanswered []questions.Question `yaml:"unanswered" json:"unanswered"`
}

// Outcomes flattens every session's outcomes, oldest first.
func (h *History) Outcomes() []Outcome {
	var out []Outcome
	for _, r := range h.Results {
		out = append(out, r.Outcomes...)
	}
	return out
}

// Append adds a finished session.
func (h *History) Append(r Result) {
	h.Results = append(h.Results, r)
}

// TakeUnanswered returns the pending questions and clears them.
func (h *History) TakeUnanswered() []questions.Question {
	pending := h.Unanswered
	h.Unanswered = nil
	return pending
}
