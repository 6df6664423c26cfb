package questions

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// integerQuestion builds a question whose answer is a single integer.
func integerQuestion(prompt string, answer int) *Question {
	return &Question{
		Prompt:     prompt,
		Answer:     strconv.Itoa(answer),
		AnswerType: AnswerTypeInteger,
	}
}

// operands draws two integers in [0, max].
func operands(s *sampler.Sampler, max int) (int, int, error) {
	a, err := s.Integer(0, max)
	if err != nil {
		return 0, 0, err
	}
	b, err := s.Integer(0, max)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// checked applies op to a and b without overflow and fails with
// sampler.ErrInvalidRange when the result does not fit in an int.
func checked(a, b int, sym string, op func(z, x, y *big.Int) *big.Int) (int, error) {
	r := op(new(big.Int), big.NewInt(int64(a)), big.NewInt(int64(b)))
	if !r.IsInt64() {
		return 0, fmt.Errorf("%w: %d %s %d overflows", sampler.ErrInvalidRange, a, sym, b)
	}
	return int(r.Int64()), nil
}

// Addition asks for a + b.
type Addition struct{}

func (Addition) Name() string    { return "addition" }
func (Addition) Explain() string { return "Add the two numbers." }

func (Addition) Options() []OptionSpec {
	return []OptionSpec{maxValOption("maximum number used in addition", 100000)}
}

func (Addition) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	a, b, err := operands(s, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	sum, err := checked(a, b, "+", (*big.Int).Add)
	if err != nil {
		return nil, err
	}
	return integerQuestion(fmt.Sprintf("%d + %d = ", a, b), sum), nil
}

// Subtraction asks for a - b with b <= a so the answer is never negative.
type Subtraction struct{}

func (Subtraction) Name() string { return "subtraction" }

func (Subtraction) Explain() string {
	return "Subtract the second number from the first."
}

func (Subtraction) Options() []OptionSpec {
	return []OptionSpec{maxValOption("maximum number used in subtraction", 100000)}
}

func (Subtraction) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	a, err := s.Integer(0, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	b, err := s.Integer(0, a)
	if err != nil {
		return nil, err
	}
	return integerQuestion(fmt.Sprintf("%d - %d = ", a, b), a-b), nil
}

// Multiplication asks for a * b.
type Multiplication struct{}

func (Multiplication) Name() string    { return "multiplication" }
func (Multiplication) Explain() string { return "Multiply the two numbers." }

func (Multiplication) Options() []OptionSpec {
	return []OptionSpec{maxValOption("maximum number used in multiplication", 9)}
}

func (Multiplication) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	a, b, err := operands(s, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	product, err := checked(a, b, "*", (*big.Int).Mul)
	if err != nil {
		return nil, err
	}
	return integerQuestion(fmt.Sprintf("%d * %d = ", a, b), product), nil
}

// Division asks for an exact quotient. The dividend is built from the
// divisor so there is never a remainder.
type Division struct{}

func (Division) Name() string { return "division" }

func (Division) Explain() string {
	return "Divide the first number by the second. There is no remainder."
}

func (Division) Options() []OptionSpec {
	return []OptionSpec{maxValOption("largest divisor and quotient", 12)}
}

func (Division) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	max := opts.Int(OptMaxVal)
	divisor, err := s.Integer(1, max)
	if err != nil {
		return nil, err
	}
	quotient, err := s.Integer(0, max)
	if err != nil {
		return nil, err
	}
	dividend, err := checked(divisor, quotient, "*", (*big.Int).Mul)
	if err != nil {
		return nil, err
	}
	return integerQuestion(fmt.Sprintf("%d / %d = ", dividend, divisor), quotient), nil
}

// Modulo asks for the remainder of a / b.
type Modulo struct{}

func (Modulo) Name() string { return "modulo" }

func (Modulo) Explain() string {
	return "Enter the remainder left over after dividing the first number by the second."
}

func (Modulo) Options() []OptionSpec {
	return []OptionSpec{
		maxValOption("largest dividend", 100),
		intOption("max_divisor", "largest divisor", 12),
	}
}

func (Modulo) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	a, err := s.Integer(0, opts.Int(OptMaxVal))
	if err != nil {
		return nil, err
	}
	b, err := s.Integer(1, opts.Int("max_divisor"))
	if err != nil {
		return nil, err
	}
	return integerQuestion(fmt.Sprintf("%d %% %d = ", a, b), a%b), nil
}

// Exponent asks for a raised to the power b.
type Exponent struct{}

func (Exponent) Name() string { return "exponent" }

func (Exponent) Explain() string {
	return "Multiply the first number by itself as many times as the second number says."
}

func (Exponent) Options() []OptionSpec {
	return []OptionSpec{
		intOption("max_base", "largest base", 10),
		intOption("max_power", "largest power", 3),
	}
}

func (Exponent) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	base, err := s.Integer(0, opts.Int("max_base"))
	if err != nil {
		return nil, err
	}
	power, err := s.Integer(0, opts.Int("max_power"))
	if err != nil {
		return nil, err
	}

	r := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(power)), nil)
	if !r.IsInt64() {
		return nil, fmt.Errorf("%w: %d^%d overflows", sampler.ErrInvalidRange, base, power)
	}
	return integerQuestion(fmt.Sprintf("%d ^ %d = ", base, power), int(r.Int64())), nil
}
