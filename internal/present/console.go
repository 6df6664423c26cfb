// Package present shows questions and feedback on a terminal and reads the
// learner's answers, either line by line or through an interactive prompt.
package present

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/sampler"
	"github.com/abhisek/mathquiz/internal/session"
)

// ErrClosed is returned by Present when input ends before an answer.
var ErrClosed = errors.New("input closed")

// Console talks to the learner over a reader and a writer.
type Console struct {
	in      io.Reader
	lines   *bufio.Reader
	out     io.Writer
	styles  styles
	prompt  bool
	names   *sampler.Sampler
	speaker Speaker
}

// Option configures a Console.
type Option func(*Console)

// WithSpeaker reads feedback aloud.
func WithSpeaker(s Speaker) Option {
	return func(c *Console) { c.speaker = s }
}

// WithNames sets the sampler used to pick praise names.
func WithNames(s *sampler.Sampler) Option {
	return func(c *Console) { c.names = s }
}

// NewPlain returns a Console that reads one answer per line and writes
// unstyled text.
func NewPlain(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{in: in, lines: bufio.NewReader(in), out: out, styles: plainStyles()}
	return c.apply(opts)
}

// NewInteractive returns a Console that collects answers with a Bubble Tea
// prompt and styles its output.
func NewInteractive(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{in: in, out: out, styles: colorStyles(), prompt: true}
	return c.apply(opts)
}

func (c *Console) apply(opts []Option) *Console {
	for _, opt := range opts {
		opt(c)
	}
	if c.names == nil {
		c.names = sampler.New()
	}
	return c
}

// Present shows q and returns the learner's raw answer.
func (c *Console) Present(ctx context.Context, q *questions.Question) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.prompt {
		return runPrompt(ctx, q, c.styles, c.in, c.out)
	}

	if q.Explanation != "" {
		fmt.Fprintln(c.out, c.styles.Explain.Render(q.Explanation))
	}
	if q.Figure != "" {
		fmt.Fprintln(c.out, c.styles.Figure.Render(strings.TrimRight(q.Figure, "\n")))
	}
	fmt.Fprint(c.out, c.styles.Prompt.Render(q.Prompt))

	line, err := c.lines.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return "", ErrClosed
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Report tells the learner whether their answer to q was right.
func (c *Console) Report(correct bool, q *questions.Question) {
	msg := Feedback(correct, Name(c.names, correct), q.Answer)
	style := c.styles.Incorrect
	if correct {
		style = c.styles.Correct
	}
	fmt.Fprintln(c.out, style.Render(msg))
	c.say(msg)
}

// Explain shows a tutor explanation.
func (c *Console) Explain(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintln(c.out, c.styles.Tutor.Render(text))
}

// Summary shows the end-of-session score and a per-type breakdown.
func (c *Console) Summary(r *session.Result) {
	s := session.BuildSummary(r)
	score := Score(s.Correct, s.Total)

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.Title.Render(score))
	if len(s.Kinds) > 1 {
		var b strings.Builder
		for i, k := range s.Kinds {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%-22s %d/%d", k.Kind, k.Correct, k.Total)
		}
		fmt.Fprintln(c.out, c.styles.Dim.Render(b.String()))
	}
	c.say(score)
}

// say speaks text, dropping the speaker after its first failure.
func (c *Console) say(text string) {
	if c.speaker == nil {
		return
	}
	if err := c.speaker.Say(text); err != nil {
		fmt.Fprintf(os.Stderr, "warning: speech disabled: %v\n", err)
		slog.Debug("speech failed", "err", err)
		c.speaker = nil
	}
}
