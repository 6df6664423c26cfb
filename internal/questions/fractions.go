package questions

import (
	"fmt"
	"math/big"

	"github.com/abhisek/mathquiz/internal/sampler"
)

// scaled renders r with numerator and denominator both multiplied by k,
// e.g. 2/3 scaled by 2 is "4/6".
func scaled(r *big.Rat, k int64) string {
	f := big.NewInt(k)
	num := new(big.Int).Mul(r.Num(), f)
	den := new(big.Int).Mul(r.Denom(), f)
	return num.String() + "/" + den.String()
}

// FractionSimplify shows a fraction in non-lowest terms and asks for it in
// lowest terms. Any equal fraction is accepted as correct.
type FractionSimplify struct{}

func (FractionSimplify) Name() string { return "fraction-simplify" }

func (FractionSimplify) Explain() string {
	return "Write the fraction in its simplest form, like 3/4."
}

func (FractionSimplify) Options() []OptionSpec {
	return []OptionSpec{maxValOption("largest numerator and denominator before scaling", 12)}
}

func (FractionSimplify) Generate(s *sampler.Sampler, opts Options) (*Question, error) {
	max := opts.Int(OptMaxVal)

	var r *big.Rat
	for range maxRedraws {
		var err error
		if r, err = s.Fraction(max); err != nil {
			return nil, err
		}
		if r.Sign() != 0 {
			break
		}
	}
	if r.Sign() == 0 {
		r.SetInt64(1)
	}

	k := int64(s.Between(2, 4))
	return &Question{
		Prompt:     fmt.Sprintf("Simplify %s: ", scaled(r, k)),
		Answer:     formatRational(r),
		AnswerType: AnswerTypeFraction,
	}, nil
}
