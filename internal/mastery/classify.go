package mastery

import "github.com/abhisek/mathquiz/internal/session"

const (
	// WindowSize is the number of most recent outcomes a verdict looks at.
	WindowSize = 30

	// Threshold is the success rate over the window needed for mastery.
	Threshold = 0.90
)

// Window returns the most recent WindowSize outcomes for kind, oldest first.
// The second value reports whether the window is full.
func Window(kind string, outcomes []session.Outcome) ([]session.Outcome, bool) {
	var mine []session.Outcome
	for _, o := range outcomes {
		if o.Question.Type == kind {
			mine = append(mine, o)
		}
	}
	if len(mine) < WindowSize {
		return mine, false
	}
	return mine[len(mine)-WindowSize:], true
}

// Classify returns a verdict for every name. A type with fewer than
// WindowSize outcomes is unmastered; otherwise it is mastered when the
// success rate over the last WindowSize outcomes reaches Threshold.
func Classify(names []string, outcomes []session.Outcome) Verdicts {
	byKind := make(map[string][]session.Outcome, len(names))
	for _, o := range outcomes {
		byKind[o.Question.Type] = append(byKind[o.Question.Type], o)
	}

	verdicts := make(Verdicts, len(names))
	for _, name := range names {
		verdicts[name] = verdictFor(byKind[name])
	}
	return verdicts
}

func verdictFor(history []session.Outcome) Verdict {
	if len(history) < WindowSize {
		return Unmastered
	}
	if SuccessRate(history[len(history)-WindowSize:]) >= Threshold {
		return Mastered
	}
	return Unmastered
}

// SuccessRate returns the fraction of correct outcomes, or 0 when empty.
func SuccessRate(outcomes []session.Outcome) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	return float64(countCorrect(outcomes)) / float64(len(outcomes))
}

// Partition splits names into mastered and unmastered, keeping order.
func Partition(names []string, verdicts Verdicts) (mastered, unmastered []string) {
	for _, name := range names {
		if verdicts.Mastered(name) {
			mastered = append(mastered, name)
		} else {
			unmastered = append(unmastered, name)
		}
	}
	return mastered, unmastered
}

func countCorrect(outcomes []session.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Correct {
			n++
		}
	}
	return n
}
