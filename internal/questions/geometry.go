package questions

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// figureMaxSide is the largest side drawn as a figure.
const figureMaxSide = 12

func sideOptions() []OptionSpec {
	return []OptionSpec{intOption("max_side", "longest side of the rectangle", 20)}
}

func rectangleSides(s *sampler.Sampler, opts Options) (int, int, error) {
	w, err := s.Integer(1, opts.Int("max_side"))
	if err != nil {
		return 0, 0, err
	}
	h, err := s.Integer(1, opts.Int("max_side"))
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// drawRectangle renders a w by h rectangle with its side lengths labelled.
// Rectangles too large for a terminal are not drawn.
func drawRectangle(w, h int) string {
	if w > figureMaxSide || h > figureMaxSide {
		return ""
	}

	var b strings.Builder
	edge := "+" + strings.Repeat("--", w) + "+"
	fmt.Fprintf(&b, "%s\n", centered(fmt.Sprint(w), len(edge)))
	b.WriteString(edge + "\n")
	for row := range h {
		side := ""
		if row == h/2 {
			side = fmt.Sprintf(" %d", h)
		}
		b.WriteString("|" + strings.Repeat("  ", w) + "|" + side + "\n")
	}
	b.WriteString(edge)
	return b.String()
}

func centered(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// RectangleArea asks for the area of a drawn rectangle.
type RectangleArea struct{}

func (RectangleArea) Name() string { return "rectangle-area" }

func (RectangleArea) Explain() string {
	return "Multiply the width by the height to find the area."
}

func (RectangleArea) Options() []OptionSpec { return sideOptions() }

func (RectangleArea) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	w, h, err := rectangleSides(s, opts)
	if err != nil {
		return nil, err
	}
	q := integerQuestion(fmt.Sprintf("What is the area of a rectangle %d wide and %d tall? ", w, h), w*h)
	q.Figure = drawRectangle(w, h)
	return q, nil
}

// RectanglePerimeter asks for the perimeter of a drawn rectangle.
type RectanglePerimeter struct{}

func (RectanglePerimeter) Name() string { return "rectangle-perimeter" }

func (RectanglePerimeter) Explain() string {
	return "Add up all four sides to find the perimeter."
}

func (RectanglePerimeter) Options() []OptionSpec { return sideOptions() }

func (RectanglePerimeter) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	w, h, err := rectangleSides(s, opts)
	if err != nil {
		return nil, err
	}
	q := integerQuestion(fmt.Sprintf("What is the perimeter of a rectangle %d wide and %d tall? ", w, h), 2*(w+h))
	q.Figure = drawRectangle(w, h)
	return q, nil
}
