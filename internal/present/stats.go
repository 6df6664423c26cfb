package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/mathquiz/internal/mastery"
)

// WriteReport renders a learner's stats report.
func WriteReport(w io.Writer, learner string, r *mastery.Report, styled bool) {
	st := plainStyles()
	if styled {
		st = colorStyles()
	}

	fmt.Fprintln(w, st.Title.Render("Stats for "+learner))

	var head strings.Builder
	fmt.Fprintf(&head, "Sessions:    %d\n", r.Sessions)
	fmt.Fprintf(&head, "Questions:   %d\n", r.Questions)
	fmt.Fprintf(&head, "Correct:     %d (%d%%)\n", r.Correct, r.SuccessRate)
	fmt.Fprintf(&head, "Unanswered:  %d", r.Unanswered)
	fmt.Fprintln(w, st.Card.Render(head.String()))

	fmt.Fprintf(w, "%-22s %-11s %-8s %s\n", "TYPE", "STATUS", "RECENT", "STREAK")
	for _, k := range r.Kinds {
		status := st.Dim.Render(fmt.Sprintf("%-11s", "learning"))
		if k.Verdict == mastery.Mastered {
			status = st.Correct.Render(fmt.Sprintf("%-11s", "mastered"))
		}
		recent := fmt.Sprintf("%d/%d", k.Correct, k.Total)
		fmt.Fprintf(w, "%-22s %s %-8s %d\n", k.Kind, status, recent, k.Streak)
	}
}
