package questions

import (
	"strings"
	"testing"
)

func validQuestion() *Question {
	return &Question{
		Type:       "addition",
		Prompt:     "345 + 278 = ",
		Answer:     "623",
		AnswerType: AnswerTypeInteger,
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}

	if err := v.Validate(validQuestion()); err != nil {
		t.Fatalf("valid question should pass: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(q *Question)
		substr string
	}{
		{"empty prompt", func(q *Question) { q.Prompt = "  " }, "prompt"},
		{"empty type", func(q *Question) { q.Type = "" }, "type"},
		{"empty answer", func(q *Question) { q.Answer = "" }, "answer is empty"},
		{"non-integer answer", func(q *Question) { q.Answer = "six" }, "not an integer"},
		{"bad fraction", func(q *Question) { q.AnswerType = AnswerTypeFraction; q.Answer = "1/0" }, "not a fraction"},
		{"bad symbol", func(q *Question) { q.AnswerType = AnswerTypeSymbol; q.Answer = "!" }, "not one of"},
		{"bad sequence", func(q *Question) { q.AnswerType = AnswerTypeSequence; q.Answer = "1 x 3" }, "sequence element"},
		{"unknown answer type", func(q *Question) { q.AnswerType = "decimal" }, "answer_type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuestion()
			tc.mutate(q)
			err := v.Validate(q)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Validator != "structural" {
				t.Errorf("Validator = %q, want structural", err.Validator)
			}
			if !strings.Contains(err.Message, tc.substr) {
				t.Errorf("Message = %q, want it to contain %q", err.Message, tc.substr)
			}
		})
	}
}

func TestArithmeticValidator(t *testing.T) {
	v := &ArithmeticValidator{}

	tests := []struct {
		prompt string
		right  string
		wrong  string
	}{
		{"345 + 278 = ", "623", "612"},
		{"567 - 289 = ", "278", "288"},
		{"7 * 8 = ", "56", "54"},
		{"144 / 12 = ", "12", "11"},
		{"17 % 5 = ", "2", "3"},
		{"2 ^ 10 = ", "1024", "20"},
		{"gcd(12, 18) = ", "6", "3"},
	}

	for _, tc := range tests {
		q := validQuestion()
		q.Prompt = tc.prompt
		q.Answer = tc.right
		if err := v.Validate(q); err != nil {
			t.Errorf("%q with %s should pass: %v", tc.prompt, tc.right, err)
		}
		q.Answer = tc.wrong
		if err := v.Validate(q); err == nil {
			t.Errorf("%q with %s should fail", tc.prompt, tc.wrong)
		}
	}
}

func TestArithmeticValidator_Overflow(t *testing.T) {
	v := &ArithmeticValidator{}
	for _, prompt := range []string{
		"9223372036854775807 + 1 = ",
		"4611686018427387904 * 2 = ",
		"10 ^ 19 = ",
	} {
		q := validQuestion()
		q.Prompt = prompt
		q.Answer = "-9223372036854775808"
		verr := v.Validate(q)
		if verr == nil {
			t.Errorf("%q should be rejected as overflowing", prompt)
			continue
		}
		if !strings.Contains(verr.Message, "overflows") {
			t.Errorf("%q: unexpected message %q", prompt, verr.Message)
		}
	}

	// Operands that do not fit an int64 cannot be recomputed at all.
	q := validQuestion()
	q.Prompt = "99999999999999999999 + 1 = "
	q.Answer = "1"
	if err := v.Validate(q); err != nil {
		t.Errorf("uncomputable prompt should pass: %v", err)
	}
}

func TestArithmeticValidator_Simplify(t *testing.T) {
	v := &ArithmeticValidator{}
	q := &Question{Type: "fraction-simplify", Prompt: "Simplify 6/8: ", Answer: "3/4", AnswerType: AnswerTypeFraction}
	if err := v.Validate(q); err != nil {
		t.Errorf("3/4 should pass: %v", err)
	}
	q.Answer = "6/8"
	if err := v.Validate(q); err == nil {
		t.Error("an answer not in lowest terms should fail")
	}
}

func TestArithmeticValidator_PassesUnparseable(t *testing.T) {
	v := &ArithmeticValidator{}

	q := validQuestion()
	q.Prompt = "Round 1234 to the nearest 100: "
	q.Answer = "1200"
	if err := v.Validate(q); err != nil {
		t.Errorf("unparseable prompt should pass: %v", err)
	}

	q = &Question{Type: "comparison", Prompt: "3 _ 4  ", Answer: "<", AnswerType: AnswerTypeSymbol}
	if err := v.Validate(q); err != nil {
		t.Errorf("symbol question should pass: %v", err)
	}
}
