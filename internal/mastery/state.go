package mastery

// Verdict is the mastery classification of one question type.
type Verdict string

const (
	Unmastered Verdict = "unmastered"
	Mastered   Verdict = "mastered"
)

// Verdicts maps every question type name to exactly one verdict.
type Verdicts map[string]Verdict

// Mastered reports whether name is mastered. Unknown names are unmastered.
func (v Verdicts) Mastered(name string) bool {
	return v[name] == Mastered
}
