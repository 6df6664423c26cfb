// Package runner drives one quiz session: it loads the learner's history,
// asks questions drawn by the adaptive quiz, and stores the result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/abhisek/mathquiz/internal/mastery"
	"github.com/abhisek/mathquiz/internal/present"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/quiz"
	"github.com/abhisek/mathquiz/internal/sampler"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/store"
	"github.com/abhisek/mathquiz/internal/tutor"
)

// ReplacementDraws is how many questions a wrong answer adds to the queue
// when the session length is adaptive.
const ReplacementDraws = 2

// Presenter shows questions and feedback to the learner.
type Presenter interface {
	// Present shows q and returns the raw answer. It returns
	// present.ErrClosed when input ends.
	Present(ctx context.Context, q *questions.Question) (string, error)
	Report(correct bool, q *questions.Question)
	Explain(text string)
	Summary(r *session.Result)
}

// Tutor explains wrong answers.
type Tutor interface {
	Explain(ctx context.Context, q *questions.Question, given string) (*tutor.Explanation, error)
}

// Options controls one session.
type Options struct {
	NumQuestions int

	// Adaptive appends ReplacementDraws fresh questions after every wrong
	// answer, so a session can run longer than NumQuestions.
	Adaptive bool

	Settings quiz.Settings
}

// Runner runs sessions against one store and registry.
type Runner struct {
	repo      store.HistoryRepo
	reg       *questions.Registry
	sampler   *sampler.Sampler
	presenter Presenter
	tutor     Tutor
	warn      io.Writer
	now       func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithTutor explains every wrong answer with t.
func WithTutor(t Tutor) Option {
	return func(r *Runner) { r.tutor = t }
}

// WithWarnings redirects non-fatal warnings, stderr by default.
func WithWarnings(w io.Writer) Option {
	return func(r *Runner) { r.warn = w }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner.
func New(repo store.HistoryRepo, reg *questions.Registry, s *sampler.Sampler, p Presenter, opts ...Option) *Runner {
	r := &Runner{
		repo:      repo,
		reg:       reg,
		sampler:   s,
		presenter: p,
		warn:      os.Stderr,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run asks up to opts.NumQuestions questions, re-asking the learner's
// unanswered questions first. When input closes early the questions not
// yet answered are saved for next time and the partial result is kept.
func (r *Runner) Run(ctx context.Context, learner string, opts Options) (*session.Result, error) {
	if err := store.ValidateLearner(learner); err != nil {
		return nil, err
	}

	history, err := r.repo.LoadHistory(ctx, learner)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	verdicts := mastery.Classify(r.reg.Names(), history.Outcomes())
	qz, err := quiz.New(r.reg, verdicts, r.sampler, opts.Settings)
	if err != nil {
		return nil, err
	}

	queue, kept := r.pending(history.TakeUnanswered(), opts.NumQuestions)
	if fresh := opts.NumQuestions - len(queue); fresh > 0 {
		drawn, err := qz.Questions(fresh)
		if err != nil {
			return nil, err
		}
		queue = append(queue, drawn...)
	}
	slog.Debug("session planned", "learner", learner, "questions", len(queue), "weights", qz.Weights())

	result := session.NewResult(r.now())
	for len(queue) > 0 {
		q := queue[0]
		given, err := r.presenter.Present(ctx, q)
		if errors.Is(err, present.ErrClosed) || errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("present question: %w", err)
		}
		queue = queue[1:]

		outcome := result.Record(q, given)
		r.presenter.Report(outcome.Correct, q)
		if outcome.Correct {
			continue
		}

		r.explain(ctx, q, given)
		if opts.Adaptive {
			extra, err := qz.Questions(ReplacementDraws)
			if err != nil {
				return nil, err
			}
			queue = append(queue, extra...)
		}
	}
	result.Finish(r.now())

	// Persist even when the session was interrupted.
	ctx = context.WithoutCancel(ctx)
	if result.Total() > 0 {
		if err := r.repo.AppendSessionResult(ctx, learner, result); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	unanswered := make([]questions.Question, 0, len(queue)+len(kept))
	for _, q := range queue {
		unanswered = append(unanswered, *q)
	}
	unanswered = append(unanswered, kept...)
	if err := r.repo.SaveUnanswered(ctx, learner, unanswered); err != nil {
		return nil, fmt.Errorf("save unanswered questions: %w", err)
	}

	if result.Total() > 0 {
		r.presenter.Summary(result)
	}
	return result, nil
}

// pending splits stored unanswered questions into up to n to re-ask now
// and the rest, which includes every question whose type is not in the
// registry.
func (r *Runner) pending(stored []questions.Question, n int) (ask []*questions.Question, kept []questions.Question) {
	for i := range stored {
		q := stored[i]
		if _, ok := r.reg.Get(q.Type); !ok || len(ask) >= n {
			kept = append(kept, q)
			continue
		}
		ask = append(ask, &q)
	}
	return ask, kept
}

// explain asks the tutor about a wrong answer. Failures are only warned about.
func (r *Runner) explain(ctx context.Context, q *questions.Question, given string) {
	if r.tutor == nil {
		return
	}
	exp, err := r.tutor.Explain(ctx, q, given)
	if err != nil {
		fmt.Fprintf(r.warn, "warning: tutor unavailable: %v\n", err)
		return
	}
	r.presenter.Explain(exp.String())
}
