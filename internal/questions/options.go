package questions

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrOptionType is returned when an option value does not match its declared type.
	ErrOptionType = errors.New("option type mismatch")

	// ErrUnknownOption is returned when a value is supplied for an undeclared option.
	ErrUnknownOption = errors.New("unknown option")
)

// OptMaxVal is the option most arithmetic kinds expose.
const OptMaxVal = "max_val"

// OptionType is the value type of an option.
type OptionType string

const (
	OptionInt    OptionType = "int"
	OptionString OptionType = "string"
)

// OptionSpec declares one configurable parameter of a Kind.
type OptionSpec struct {
	Name    string
	Help    string
	Type    OptionType
	Default any
}

// Validate checks that the default satisfies the declared type.
func (o OptionSpec) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("option name is empty")
	}
	switch o.Type {
	case OptionInt:
		if _, ok := o.Default.(int); !ok {
			return fmt.Errorf("%w: %s default %v is not an int", ErrOptionType, o.Name, o.Default)
		}
	case OptionString:
		if _, ok := o.Default.(string); !ok {
			return fmt.Errorf("%w: %s default %v is not a string", ErrOptionType, o.Name, o.Default)
		}
	default:
		return fmt.Errorf("%w: %s has unsupported type %q", ErrOptionType, o.Name, o.Type)
	}
	return nil
}

// FlagName returns the namespaced name "<kind>-<option>" used on the command
// line. Underscores become dashes.
func FlagName(kind, option string) string {
	return kind + "-" + strings.ReplaceAll(option, "_", "-")
}

// Options holds resolved option values for one kind.
type Options map[string]any

// Int returns the named option as an int, or 0 if missing.
func (o Options) Int(name string) int {
	v, _ := o[name].(int)
	return v
}

// String returns the named option as a string, or "" if missing.
func (o Options) String(name string) string {
	v, _ := o[name].(string)
	return v
}

// Defaults returns the default options of k.
func Defaults(k Kind) Options {
	opts := make(Options, len(k.Options()))
	for _, spec := range k.Options() {
		opts[spec.Name] = spec.Default
	}
	return opts
}

// Resolve merges provided values over the defaults of k, coercing each value
// to its declared type.
func Resolve(k Kind, provided map[string]any) (Options, error) {
	opts := Defaults(k)
	specs := make(map[string]OptionSpec, len(k.Options()))
	for _, spec := range k.Options() {
		specs[spec.Name] = spec
	}

	for name, raw := range provided {
		spec, ok := specs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownOption, k.Name(), name)
		}
		v, err := coerce(spec, raw)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", k.Name(), name, err)
		}
		opts[name] = v
	}
	return opts, nil
}

// coerce converts values decoded from flags, YAML or the environment.
func coerce(spec OptionSpec, raw any) (any, error) {
	switch spec.Type {
	case OptionInt:
		switch v := raw.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: %v is not an integer", ErrOptionType, v)
			}
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", ErrOptionType, v)
			}
			return n, nil
		}
	case OptionString:
		if v, ok := raw.(string); ok {
			return v, nil
		}
		return fmt.Sprint(raw), nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as %s", ErrOptionType, raw, spec.Type)
}

// maxValOption declares the common max_val option.
func maxValOption(help string, def int) OptionSpec {
	return OptionSpec{Name: OptMaxVal, Help: help, Type: OptionInt, Default: def}
}

func intOption(name, help string, def int) OptionSpec {
	return OptionSpec{Name: name, Help: help, Type: OptionInt, Default: def}
}
