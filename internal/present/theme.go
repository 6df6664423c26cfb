package present

import "charm.land/lipgloss/v2"

// Color palette, kid-friendly, bright but not garish.
var (
	Primary = lipgloss.Color("#8B5CF6") // Vivid Purple
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#F43F5E") // Rose
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// style renders with a lipgloss style, or passes text through untouched
// in plain mode.
type style struct {
	ls    lipgloss.Style
	plain bool
}

func (s style) Render(text string) string {
	if s.plain {
		return text
	}
	return s.ls.Render(text)
}

// styles groups every style the presenter renders with.
type styles struct {
	Explain   style
	Prompt    style
	Figure    style
	Correct   style
	Incorrect style
	Tutor     style
	Title     style
	Dim       style
	Card      style
}

func plainStyles() styles {
	p := style{plain: true}
	return styles{
		Explain: p, Prompt: p, Figure: p, Correct: p, Incorrect: p,
		Tutor: p, Title: p, Dim: p, Card: p,
	}
}

func colorStyles() styles {
	return styles{
		Explain: style{ls: lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)},
		Prompt: style{ls: lipgloss.NewStyle().
			Bold(true)},
		Figure: style{ls: lipgloss.NewStyle().
			Foreground(Accent)},
		Correct: style{ls: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)},
		Incorrect: style{ls: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)},
		Tutor: style{ls: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)},
		Title: style{ls: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)},
		Dim: style{ls: lipgloss.NewStyle().
			Foreground(TextDim)},
		Card: style{ls: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)},
	}
}
