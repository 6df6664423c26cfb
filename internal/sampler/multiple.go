package sampler

import (
	"errors"
	"fmt"
)

// ErrDirection is returned for a direction other than up or down.
var ErrDirection = errors.New("bad direction")

// Direction is the way NextMultiple rounds.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// NextMultiple returns the multiple of factor adjacent to number in the given
// direction. An exact multiple always moves one full step.
func NextMultiple(number, factor int, dir Direction) (int, error) {
	if factor <= 0 {
		return 0, fmt.Errorf("%w: factor must be positive, got %d", ErrInvalidRange, factor)
	}

	switch dir {
	case Down:
		if number%factor == 0 {
			return number - factor, nil
		}
		return (number / factor) * factor, nil
	case Up:
		if number%factor == 0 {
			return number + factor, nil
		}
		return (number/factor + 1) * factor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrDirection, dir)
	}
}
