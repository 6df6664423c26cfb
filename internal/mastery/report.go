package mastery

import "github.com/abhisek/mathquiz/internal/session"

// KindReport is the per-type line of the stats report.
type KindReport struct {
	Kind    string
	Verdict Verdict

	// Correct and Total cover the mastery window only.
	Correct int
	Total   int

	// Streak is the current run of correct answers.
	Streak int
}

// Report summarises a learner's whole history.
type Report struct {
	Sessions    int
	Questions   int
	Correct     int
	SuccessRate int // whole percent, rounded down
	Unanswered  int
	Kinds       []KindReport
}

// BuildReport computes the stats report for the given type names.
func BuildReport(names []string, h *session.History) *Report {
	outcomes := h.Outcomes()
	verdicts := Classify(names, outcomes)

	r := &Report{
		Sessions:   len(h.Results),
		Questions:  len(outcomes),
		Correct:    countCorrect(outcomes),
		Unanswered: len(h.Unanswered),
	}
	if r.Questions > 0 {
		r.SuccessRate = r.Correct * 100 / r.Questions
	}

	for _, name := range names {
		window, _ := Window(name, outcomes)
		r.Kinds = append(r.Kinds, KindReport{
			Kind:    name,
			Verdict: verdicts[name],
			Correct: countCorrect(window),
			Total:   len(window),
			Streak:  streak(name, outcomes),
		})
	}
	return r
}

// streak counts the trailing correct answers for kind.
func streak(kind string, outcomes []session.Outcome) int {
	n := 0
	for i := len(outcomes) - 1; i >= 0; i-- {
		if outcomes[i].Question.Type != kind {
			continue
		}
		if !outcomes[i].Correct {
			break
		}
		n++
	}
	return n
}
