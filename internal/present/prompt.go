package present

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquiz/internal/questions"
)

// answerChars are the only printable keys the prompt accepts.
const answerChars = "0123456789/<>= -"

const answerLimit = 40

// promptModel is a one-question Bubble Tea program.
type promptModel struct {
	question  *questions.Question
	styles    styles
	input     textinput.Model
	submitted bool
	cancelled bool
}

func newPromptModel(q *questions.Question, st styles) promptModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder(q.AnswerType)
	ti.CharLimit = answerLimit
	ti.Focus()

	return promptModel{question: q, styles: st, input: ti}
}

func placeholder(t questions.AnswerType) string {
	switch t {
	case questions.AnswerTypeFraction:
		return "a/b"
	case questions.AnswerTypeSymbol:
		return "<, > or ="
	case questions.AnswerTypeSequence:
		return "numbers separated by spaces"
	default:
		return "your answer"
	}
}

func (m promptModel) Init() tea.Cmd {
	return m.input.Focus()
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		switch key {
		case "enter":
			m.submitted = true
			return m, tea.Quit
		case "ctrl+c", "ctrl+d", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
		if len(key) == 1 && !strings.Contains(answerChars, key) {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m promptModel) render() string {
	var b strings.Builder
	if m.question.Explanation != "" {
		b.WriteString(m.styles.Explain.Render(m.question.Explanation))
		b.WriteString("\n")
	}
	if m.question.Figure != "" {
		b.WriteString(m.styles.Figure.Render(strings.TrimRight(m.question.Figure, "\n")))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Prompt.Render(m.question.Prompt))
	if m.submitted || m.cancelled {
		b.WriteString(m.input.Value())
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	return b.String()
}

// Value returns the typed answer.
func (m promptModel) Value() string {
	return m.input.Value()
}

// runPrompt runs the prompt program until the learner submits or cancels.
func runPrompt(ctx context.Context, q *questions.Question, st styles, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newPromptModel(q, st),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out))

	final, err := p.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("answer prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok || m.cancelled || !m.submitted {
		return "", ErrClosed
	}
	return m.Value(), nil
}
