package session

import "time"

// KindResult is the per-question-type tally shown on the summary.
type KindResult struct {
	Kind    string
	Total   int
	Correct int
}

// Summary holds the data displayed at the end of a session.
type Summary struct {
	Duration time.Duration
	Total    int
	Correct  int
	Accuracy float64
	Kinds    []KindResult
}

// BuildSummary creates a Summary from a session result. Kinds appear in the
// order they were first asked.
func BuildSummary(r *Result) *Summary {
	var kinds []KindResult
	index := map[string]int{}
	for _, o := range r.Outcomes {
		i, ok := index[o.Question.Type]
		if !ok {
			i = len(kinds)
			index[o.Question.Type] = i
			kinds = append(kinds, KindResult{Kind: o.Question.Type})
		}
		kinds[i].Total++
		if o.Correct {
			kinds[i].Correct++
		}
	}

	var accuracy float64
	if r.Total() > 0 {
		accuracy = float64(r.Correct()) / float64(r.Total())
	}

	return &Summary{
		Duration: r.Duration(),
		Total:    r.Total(),
		Correct:  r.Correct(),
		Accuracy: accuracy,
		Kinds:    kinds,
	}
}
