// Package quiz draws question types for a session, favouring the types a
// learner has not mastered yet.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/mathquiz/internal/mastery"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/sampler"
)

// ErrEmptyRegistry is returned when there are no question types to draw from.
var ErrEmptyRegistry = errors.New("no question types available")

// BoostFactor is how many times an unmastered type appears in the pool.
// Mastered types appear once, so they still come up occasionally.
const BoostFactor = 5

// Settings holds per-kind option overrides: kind name -> option name -> value.
type Settings map[string]map[string]any

// Set records one override, creating the kind entry if needed.
func (s Settings) Set(kind, option string, value any) {
	if s[kind] == nil {
		s[kind] = map[string]any{}
	}
	s[kind][option] = value
}

// Quiz draws kinds from a weighted pool and generates questions for them.
type Quiz struct {
	reg     *questions.Registry
	sampler *sampler.Sampler
	pool    []questions.Kind
	options map[string]questions.Options
}

// New builds the weighted pool from reg and verdicts and resolves every
// kind's options from settings.
func New(reg *questions.Registry, verdicts mastery.Verdicts, s *sampler.Sampler, settings Settings) (*Quiz, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, ErrEmptyRegistry
	}

	q := &Quiz{
		reg:     reg,
		sampler: s,
		options: make(map[string]questions.Options, reg.Len()),
	}

	for _, k := range reg.Kinds() {
		opts, err := questions.Resolve(k, settings[k.Name()])
		if err != nil {
			return nil, fmt.Errorf("resolve options: %w", err)
		}
		q.options[k.Name()] = opts

		weight := BoostFactor
		if verdicts.Mastered(k.Name()) {
			weight = 1
		}
		for range weight {
			q.pool = append(q.pool, k)
		}
	}
	return q, nil
}

// Draw picks one kind uniformly from the weighted pool, with replacement.
func (q *Quiz) Draw() questions.Kind {
	return sampler.Pick(q.sampler, q.pool)
}

// Next draws a kind and generates a question for it.
func (q *Quiz) Next() (*questions.Question, error) {
	k := q.Draw()
	return q.reg.Generate(k, q.sampler, q.options[k.Name()])
}

// Questions generates n questions from independent draws.
func (q *Quiz) Questions(n int) ([]*questions.Question, error) {
	out := make([]*questions.Question, 0, n)
	for range n {
		next, err := q.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}

// Options returns the resolved options for a kind.
func (q *Quiz) Options(kind string) questions.Options {
	return q.options[kind]
}

// Weights returns how many pool slots each kind holds.
func (q *Quiz) Weights() map[string]int {
	w := make(map[string]int, q.reg.Len())
	for _, k := range q.pool {
		w[k.Name()]++
	}
	return w
}
