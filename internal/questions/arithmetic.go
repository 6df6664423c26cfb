package questions

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// ArithmeticValidator recomputes the answer of plain "a op b = ",
// "gcd(a, b) = " and "Simplify a/b: " prompts. Prompts it cannot parse pass
// through silently; prompts whose result overflows are rejected.
type ArithmeticValidator struct{}

func (v *ArithmeticValidator) Name() string { return "arithmetic" }

var (
	binaryOpRe = regexp.MustCompile(`^(\d+) ([+\-*/%^]) (\d+) = $`)
	gcdRe      = regexp.MustCompile(`^gcd\((\d+), (\d+)\) = $`)
	simplifyRe = regexp.MustCompile(`^Simplify (\d+)/(\d+): $`)
)

func (v *ArithmeticValidator) Validate(q *Question) *ValidationError {
	switch q.AnswerType {
	case AnswerTypeInteger:
		return v.validateInteger(q)
	case AnswerTypeFraction:
		return v.validateFraction(q)
	}
	return nil
}

func (v *ArithmeticValidator) validateInteger(q *Question) *ValidationError {
	computed, err := recompute(q.Prompt)
	if errors.Is(err, sampler.ErrInvalidRange) {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if err != nil {
		return nil
	}
	want, err := strconv.ParseInt(NormalizeAnswer(q.Answer), 10, 64)
	if err != nil || want != computed {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %d but question claims %q", computed, q.Answer),
		}
	}
	return nil
}

// validateFraction requires the answer to a simplify prompt to equal the
// shown fraction and be in lowest terms.
func (v *ArithmeticValidator) validateFraction(q *Question) *ValidationError {
	m := simplifyRe.FindStringSubmatch(q.Prompt)
	if m == nil {
		return nil
	}
	shown, ok := new(big.Rat).SetString(m[1] + "/" + m[2])
	if !ok {
		return nil
	}
	if formatRational(shown) != NormalizeAnswer(q.Answer) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%s/%s simplifies to %s but question claims %q", m[1], m[2], formatRational(shown), q.Answer),
		}
	}
	return nil
}

// recompute evaluates a prompt the validator understands.
func recompute(prompt string) (int64, error) {
	if m := gcdRe.FindStringSubmatch(prompt); m != nil {
		a, b, err := parsePair(m[1], m[2])
		if err != nil {
			return 0, err
		}
		return gcd(a, b), nil
	}

	m := binaryOpRe.FindStringSubmatch(prompt)
	if m == nil {
		return 0, fmt.Errorf("not computable")
	}
	a, b, err := parsePair(m[1], m[3])
	if err != nil {
		return 0, err
	}
	x, y := big.NewInt(a), big.NewInt(b)

	switch m[2] {
	case "+":
		return fitInt64(new(big.Int).Add(x, y))
	case "-":
		return a - b, nil
	case "*":
		return fitInt64(new(big.Int).Mul(x, y))
	case "/":
		if b == 0 || a%b != 0 {
			return 0, fmt.Errorf("inexact division")
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return a % b, nil
	case "^":
		return fitInt64(new(big.Int).Exp(x, y, nil))
	}
	return 0, fmt.Errorf("unsupported operator %q", m[2])
}

// parsePair parses two decimal operands. Operands too large for an int64
// make the prompt uncomputable.
func parsePair(a, b string) (int64, int64, error) {
	x, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseInt(b, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func fitInt64(r *big.Int) (int64, error) {
	if !r.IsInt64() {
		return 0, fmt.Errorf("%w: result %s overflows", sampler.ErrInvalidRange, r)
	}
	return r.Int64(), nil
}

// gcd returns the greatest common divisor of non-negative a and b.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
