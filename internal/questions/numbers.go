package questions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// GCD asks for the greatest common divisor of two positive integers.
type GCD struct{}

func (GCD) Name() string { return "gcd" }

func (GCD) Explain() string {
	return "Enter the largest number that divides evenly into both numbers."
}

func (GCD) Options() []OptionSpec {
	return []OptionSpec{maxValOption("largest number to find a divisor of", 100)}
}

func (GCD) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	max := opts.Int(OptMaxVal)
	a, err := s.Integer(1, max)
	if err != nil {
		return nil, err
	}
	b, err := s.Integer(1, max)
	if err != nil {
		return nil, err
	}
	return integerQuestion(fmt.Sprintf("gcd(%d, %d) = ", a, b), int(gcd(int64(a), int64(b)))), nil
}

// GreatestFactor asks for the largest proper factor of n.
type GreatestFactor struct{}

func (GreatestFactor) Name() string { return "greatest-factor" }

func (GreatestFactor) Explain() string {
	return "Enter the largest number, other than the number itself, that divides evenly into it."
}

func (GreatestFactor) Options() []OptionSpec {
	return []OptionSpec{maxValOption("largest number to factor", 100)}
}

func (GreatestFactor) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	n, err := s.Integer(2, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	return integerQuestion(
		fmt.Sprintf("What is the greatest factor of %d other than %d? ", n, n),
		n/smallestPrimeFactor(n),
	), nil
}

// smallestPrimeFactor returns the smallest prime dividing n, for n >= 2.
func smallestPrimeFactor(n int) int {
	for p := 2; p*p <= n; p++ {
		if n%p == 0 {
			return p
		}
	}
	return n
}

var multipleFactors = []int{10, 100, 10000}

// NextMultiple asks for the multiple of 10, 100 or 10000 just above or below
// a number.
type NextMultiple struct{}

func (NextMultiple) Name() string { return "next-multiple" }

func (NextMultiple) Explain() string {
	return "Enter the next multiple of the given factor in the given direction. " +
		"If the number is already a multiple, move a full step."
}

func (NextMultiple) Options() []OptionSpec {
	return []OptionSpec{maxValOption("maximum number to find the next multiple of", 100000)}
}

func (NextMultiple) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	number, err := s.Integer(0, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	factor := sampler.Pick(s, multipleFactors)
	dir := sampler.Pick(s, []sampler.Direction{sampler.Up, sampler.Down})

	answer, err := sampler.NextMultiple(number, factor, dir)
	if err != nil {
		return nil, err
	}
	if answer < 0 {
		dir = sampler.Up
		if answer, err = sampler.NextMultiple(number, factor, dir); err != nil {
			return nil, err
		}
	}

	return integerQuestion(
		fmt.Sprintf("What is the next multiple of %d going %s from %d? ", factor, dir, number),
		answer,
	), nil
}

// CountBy asks the learner to continue an arithmetic sequence.
type CountBy struct{}

func (CountBy) Name() string { return "count-by" }

func (CountBy) Explain() string {
	return "Type each number, separated by a space, counting by the step from the start up to the last number."
}

func (CountBy) Options() []OptionSpec { return nil }

func (CountBy) Generate(s *sampler.Sampler, _ Options) (*Question, error) {
	start := s.Between(0, 9)
	step := s.Between(1, 9)
	steps := s.Between(2, 9)
	end := start + step*steps

	terms := make([]string, 0, steps+1)
	for v := start; v <= end; v += step {
		terms = append(terms, strconv.Itoa(v))
	}

	return &Question{
		Prompt:     fmt.Sprintf("Count by %d's starting at %d up to %d: ", step, start, end),
		Answer:     strings.Join(terms, " "),
		AnswerType: AnswerTypeSequence,
	}, nil
}

var roundingPlaces = []int{100, 1000, 10000}

// Rounding asks for a number rounded to the nearest 100, 1000 or 10000.
// Halves round up.
type Rounding struct{}

func (Rounding) Name() string { return "rounding" }

func (Rounding) Explain() string {
	return "Round the number to the nearest place given. Halfway rounds up."
}

func (Rounding) Options() []OptionSpec {
	return []OptionSpec{maxValOption("maximum number to round", 100000)}
}

func (Rounding) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	number, err := s.Integer(0, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	place := sampler.Pick(s, roundingPlaces)
	return integerQuestion(
		fmt.Sprintf("Round %d to the nearest %d: ", number, place),
		roundHalfUp(number, place),
	), nil
}

func roundHalfUp(n, place int) int {
	return (n + place/2) / place * place
}
