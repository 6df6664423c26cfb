package questions

import (
	"fmt"
	"math/big"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// equalOneIn makes "=" come up one time in five for comparison kinds.
const equalOneIn = 5

// maxRedraws bounds how often a generator redraws to avoid a collision.
const maxRedraws = 100

func symbolFor(cmp int) string {
	switch {
	case cmp < 0:
		return "<"
	case cmp > 0:
		return ">"
	}
	return "="
}

// Comparison asks which of <, >, = belongs between two integers.
type Comparison struct{}

func (Comparison) Name() string { return "comparison" }

func (Comparison) Explain() string {
	return "Enter <, > or = to compare the two numbers."
}

func (Comparison) Options() []OptionSpec {
	return []OptionSpec{maxValOption("maximum number used in comparisons", 100000)}
}

func (Comparison) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	max := opts.Int(OptMaxVal)
	a, err := s.Integer(0, max)
	if err != nil {
		return nil, err
	}

	b := a
	if !s.OneIn(equalOneIn) {
		for range maxRedraws {
			if b, err = s.Integer(0, max); err != nil {
				return nil, err
			}
			if b != a {
				break
			}
		}
	}

	return &Question{
		Prompt:     fmt.Sprintf("%d _ %d  ", a, b),
		Answer:     symbolFor(compareInts(a, b)),
		AnswerType: AnswerTypeSymbol,
	}, nil
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FractionComparison compares two fractions. Equal pairs are shown in
// different terms, e.g. 2/3 and 4/6.
type FractionComparison struct{}

func (FractionComparison) Name() string { return "fraction-comparison" }

func (FractionComparison) Explain() string {
	return "Enter <, > or = to compare the two fractions."
}

func (FractionComparison) Options() []OptionSpec {
	return []OptionSpec{maxValOption("largest numerator and denominator", 12)}
}

func (FractionComparison) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	max := opts.Int(OptMaxVal)
	a, err := s.Fraction(max)
	if err != nil {
		return nil, err
	}

	var left, right string
	var cmp int
	if s.OneIn(equalOneIn) {
		k := int64(s.Between(2, 4))
		left = formatRational(a)
		right = scaled(a, k)
	} else {
		var b *big.Rat
		for range maxRedraws {
			if b, err = s.Fraction(max); err != nil {
				return nil, err
			}
			if b.Cmp(a) != 0 {
				break
			}
		}
		left, right = formatRational(a), formatRational(b)
		cmp = a.Cmp(b)
	}

	return &Question{
		Prompt:     fmt.Sprintf("%s _ %s  ", left, right),
		Answer:     symbolFor(cmp),
		AnswerType: AnswerTypeSymbol,
	}, nil
}
