package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/rand/v2"
	"time"
)

var (
	// ErrInvalidRange is returned when max is less than min.
	ErrInvalidRange = errors.New("invalid range")

	// ErrUnsupported is returned for negative lower bounds.
	ErrUnsupported = errors.New("unsupported range")
)

// zeroExponentWeight and exponentWeight control how often each decimal
// exponent is picked. Single-digit results are picked a tenth as often as
// any other magnitude.
const (
	zeroExponentWeight = 1
	exponentWeight     = 10
)

// Sampler produces calibrated random numbers for question generators.
// It is not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// New returns a Sampler seeded from the clock.
func New() *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))}
}

// NewSeeded returns a deterministic Sampler.
func NewSeeded(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Integer returns a value in [min, max] whose number of decimal digits is
// roughly log-uniform rather than the value itself being uniform. With
// max=100000 this yields about as many two-digit numbers as five-digit ones.
func (s *Sampler) Integer(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("%w: max (%d) is less than min (%d)", ErrInvalidRange, max, min)
	}
	if min < 0 {
		return 0, fmt.Errorf("%w: negative values (min=%d)", ErrUnsupported, min)
	}

	switch {
	case min == max:
		return min, nil
	case max == 0:
		return 0, nil
	case max == 1:
		return s.rng.IntN(2), nil
	}

	minExp := 0
	if min > 0 {
		minExp = ceilLog10(min)
	}
	maxExp := ceilLog10(max)

	var bag []int
	for e := minExp; e <= maxExp; e++ {
		weight := exponentWeight
		if e == 0 {
			weight = zeroExponentWeight
		}
		for range weight {
			bag = append(bag, e)
		}
	}
	exp := bag[s.rng.IntN(len(bag))]

	lo := min
	if exp > 0 {
		lo = maxInt(min, pow10(exp-1))
	}
	hi := minInt(pow10(exp), max)

	return s.Between(lo, hi), nil
}

// Fraction returns numerator/denominator with the numerator in [0, max] and
// the denominator in [1, max], both drawn with Integer. The result is reduced.
func (s *Sampler) Fraction(max int) (*big.Rat, error) {
	num, err := s.Integer(0, max)
	if err != nil {
		return nil, fmt.Errorf("numerator: %w", err)
	}
	den, err := s.Integer(1, max)
	if err != nil {
		return nil, fmt.Errorf("denominator: %w", err)
	}
	return big.NewRat(int64(num), int64(den)), nil
}

// Between returns a uniform integer in [lo, hi]. It panics if hi < lo.
func (s *Sampler) Between(lo, hi int) int {
	if hi < lo {
		panic("sampler: Between with hi < lo")
	}
	// The width is computed unsigned so [0, MaxInt] and wider spans fit.
	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		return int(s.rng.Uint64())
	}
	return lo + int(s.rng.Uint64N(span))
}

// IntN returns a uniform integer in [0, n).
func (s *Sampler) IntN(n int) int {
	return s.rng.IntN(n)
}

// OneIn reports true with probability 1/n.
func (s *Sampler) OneIn(n int) bool {
	return s.rng.IntN(n) == 0
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](s *Sampler, items []T) T {
	return items[s.rng.IntN(len(items))]
}

// ceilLog10 returns the smallest e with 10^e >= n, for n >= 1.
// Past 10^18 the next power no longer fits in an int, so 19 is the
// largest exponent returned.
func ceilLog10(n int) int {
	e, p := 0, 1
	for p < n {
		e++
		if p > math.MaxInt/10 {
			break
		}
		p *= 10
	}
	return e
}

// pow10 returns 10^e, saturating at math.MaxInt.
func pow10(e int) int {
	p := 1
	for range e {
		if p > math.MaxInt/10 {
			return math.MaxInt
		}
		p *= 10
	}
	return p
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
