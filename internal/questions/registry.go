package questions

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/abhisek/mathquiz/internal/sampler"
)

var (
	// ErrDuplicateKind is returned when two kinds share a name.
	ErrDuplicateKind = errors.New("duplicate question kind")

	// ErrUnknownKind is returned when a name matches no registered kind.
	ErrUnknownKind = errors.New("unknown question kind")
)

// Registry is an ordered, name-indexed set of question kinds.
// A Registry is read-only once built and safe for concurrent reads.
type Registry struct {
	kinds      []Kind
	byName     map[string]Kind
	validators []Validator
}

// NewRegistry builds a registry from kinds, in the given order.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := &Registry{
		byName:     make(map[string]Kind, len(kinds)),
		validators: DefaultValidators(),
	}
	for _, k := range kinds {
		if err := r.register(k); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(kinds ...Kind) *Registry {
	r, err := NewRegistry(kinds...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(k Kind) error {
	name := k.Name()
	if name == "" {
		return fmt.Errorf("question kind has empty name")
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, name)
	}
	for _, spec := range k.Options() {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("kind %s: %w", name, err)
		}
	}
	r.kinds = append(r.kinds, k)
	r.byName[name] = k
	return nil
}

// Get returns the kind with the given name.
func (r *Registry) Get(name string) (Kind, bool) {
	k, ok := r.byName[name]
	return k, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

// Names returns the registered kind names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.kinds))
	for i, k := range r.kinds {
		out[i] = k.Name()
	}
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int { return len(r.kinds) }

// Filter returns a registry restricted to names, keeping registration order.
// An empty names slice returns r unchanged.
func (r *Registry) Filter(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}

	want := make(map[string]bool, len(names))
	var unknown []string
	for _, n := range names {
		if _, ok := r.byName[n]; !ok {
			unknown = append(unknown, n)
			continue
		}
		want[n] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, unknown)
	}

	out := &Registry{
		byName:     make(map[string]Kind, len(want)),
		validators: r.validators,
	}
	for _, k := range r.kinds {
		if want[k.Name()] {
			out.kinds = append(out.kinds, k)
			out.byName[k.Name()] = k
		}
	}
	return out, nil
}

// Generate produces one question of kind k and runs it through the
// validator chain.
func (r *Registry) Generate(k Kind, s *sampler.Sampler, opts Options) (*Question, error) {
	q, err := k.Generate(s, opts)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", k.Name(), err)
	}

	q.Type = k.Name()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Explanation == "" {
		q.Explanation = k.Explain()
	}

	for _, v := range r.validators {
		if verr := v.Validate(q); verr != nil {
			return nil, fmt.Errorf("generate %s: %w", k.Name(), verr)
		}
	}
	return q, nil
}

// Builtin returns a registry holding every built-in kind.
func Builtin() *Registry {
	return MustRegistry(
		Comparison{},
		FractionComparison{},
		FractionSimplify{},
		Addition{},
		Subtraction{},
		Multiplication{},
		Division{},
		Modulo{},
		Exponent{},
		GCD{},
		GreatestFactor{},
		NextMultiple{},
		CountBy{},
		Rounding{},
		RectangleArea{},
		RectanglePerimeter{},
	)
}
