package questions

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// CheckAnswer compares the learner's input against the expected answer of q.
//
// Normalization rules:
// - Leading and trailing whitespace is dropped, inner runs collapse to one space
// - Integers compare by value ("042" matches "42")
// - Fractions compare as exact rationals ("6/8" matches "3/4", "0.75" does not)
// - Symbols and sequences compare as normalized strings
//
// Malformed input is simply incorrect.
func CheckAnswer(q *Question, given string) bool {
	given = NormalizeAnswer(given)
	if given == "" {
		return false
	}

	switch q.AnswerType {
	case AnswerTypeInteger:
		got, err := strconv.ParseInt(given, 10, 64)
		if err != nil {
			return false
		}
		want, err := strconv.ParseInt(NormalizeAnswer(q.Answer), 10, 64)
		if err != nil {
			return false
		}
		return got == want

	case AnswerTypeFraction:
		got, err := parseRational(given)
		if err != nil {
			return false
		}
		want, err := parseRational(NormalizeAnswer(q.Answer))
		if err != nil {
			return false
		}
		return got.Cmp(want) == 0

	default:
		return given == NormalizeAnswer(q.Answer)
	}
}

// NormalizeAnswer trims s and collapses inner whitespace to single spaces.
func NormalizeAnswer(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseRational parses "a/b" or a bare integer into an exact rational.
// Decimal notation is rejected.
func parseRational(s string) (*big.Rat, error) {
	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid numerator: %w", err)
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid denominator: %w", err)
	}
	if d == 0 {
		return nil, fmt.Errorf("zero denominator")
	}
	return big.NewRat(n, d), nil
}

// formatRational renders r as "num/den" even when the denominator is 1.
func formatRational(r *big.Rat) string {
	return r.Num().String() + "/" + r.Denom().String()
}
