package questions

import (
	"strconv"
	"strings"
)

// StructuralValidator checks that required fields are present and that the
// expected answer parses as its declared type.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	if strings.TrimSpace(q.Prompt) == "" {
		return v.fail("prompt is empty")
	}
	if q.Type == "" {
		return v.fail("type is empty")
	}
	answer := NormalizeAnswer(q.Answer)
	if answer == "" {
		return v.fail("answer is empty")
	}

	switch q.AnswerType {
	case AnswerTypeInteger:
		if _, err := strconv.ParseInt(answer, 10, 64); err != nil {
			return v.fail("answer " + strconv.Quote(answer) + " is not an integer")
		}
	case AnswerTypeFraction:
		if _, err := parseRational(answer); err != nil {
			return v.fail("answer " + strconv.Quote(answer) + " is not a fraction")
		}
	case AnswerTypeSymbol:
		if answer != "<" && answer != ">" && answer != "=" {
			return v.fail("answer " + strconv.Quote(answer) + " is not one of <, >, =")
		}
	case AnswerTypeSequence:
		for _, field := range strings.Fields(answer) {
			if _, err := strconv.ParseInt(field, 10, 64); err != nil {
				return v.fail("sequence element " + strconv.Quote(field) + " is not an integer")
			}
		}
	default:
		return v.fail("answer_type must be \"integer\", \"fraction\", \"symbol\", or \"sequence\"")
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}
