package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), DBFile))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func openTestFiles(t *testing.T) *FileStore {
	t.Helper()
	f, err := OpenFiles(t.TempDir())
	if err != nil {
		t.Fatalf("open test files: %v", err)
	}
	return f
}

// backends runs fn against every backend.
func backends(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, openTestStore(t)) })
	t.Run("yaml", func(t *testing.T) { fn(t, openTestFiles(t)) })
}

func sampleResult(start time.Time) *session.Result {
	r := session.NewResult(start)
	r.Add(session.Outcome{
		Question: questions.Question{
			ID: "q-1", Type: "addition", Prompt: "2 + 3 = ",
			Explanation: "Add the two numbers.", Answer: "5",
			AnswerType: questions.AnswerTypeInteger,
		},
		Given:   "5",
		Correct: true,
	})
	r.Add(session.Outcome{
		Question: questions.Question{
			ID: "q-2", Type: "rectangle-area", Prompt: "What is the area of a rectangle 2 wide and 1 tall? ",
			Answer: "2", AnswerType: questions.AnswerTypeInteger, Figure: "+----+\n|    |\n+----+",
		},
		Given:   "3",
		Correct: false,
	})
	r.Finish(start.Add(time.Minute))
	return r
}

func TestLoadHistory_Empty(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		h, err := b.HistoryRepo().LoadHistory(context.Background(), "ada")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(h.Results) != 0 || len(h.Unanswered) != 0 {
			t.Errorf("expected empty history, got %+v", h)
		}
	})
}

func TestAppendSessionResult_RoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		repo := b.HistoryRepo()
		start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

		first := sampleResult(start)
		second := sampleResult(start.Add(time.Hour))
		if err := repo.AppendSessionResult(ctx, "ada", first); err != nil {
			t.Fatalf("append first: %v", err)
		}
		if err := repo.AppendSessionResult(ctx, "ada", second); err != nil {
			t.Fatalf("append second: %v", err)
		}
		if err := repo.AppendSessionResult(ctx, "bob", sampleResult(start)); err != nil {
			t.Fatalf("append bob: %v", err)
		}

		h, err := repo.LoadHistory(ctx, "ada")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(h.Results) != 2 {
			t.Fatalf("got %d results, want 2", len(h.Results))
		}
		if h.Results[0].ID != first.ID || h.Results[1].ID != second.ID {
			t.Error("results out of order")
		}

		got := h.Results[0]
		if !got.StartedAt.Equal(first.StartedAt) || !got.FinishedAt.Equal(first.FinishedAt) {
			t.Errorf("times = %v..%v, want %v..%v", got.StartedAt, got.FinishedAt, first.StartedAt, first.FinishedAt)
		}
		if got.Total() != 2 || got.Correct() != 1 {
			t.Errorf("got %d/%d, want 1/2", got.Correct(), got.Total())
		}
		if got.Outcomes[0].Question != first.Outcomes[0].Question {
			t.Errorf("question = %+v, want %+v", got.Outcomes[0].Question, first.Outcomes[0].Question)
		}
		if got.Outcomes[1].Question.Figure != first.Outcomes[1].Question.Figure {
			t.Error("figure not preserved")
		}
		if got.Outcomes[1].Given != "3" {
			t.Errorf("Given = %q, want 3", got.Outcomes[1].Given)
		}
	})
}

func TestSaveUnanswered_Replaces(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		repo := b.HistoryRepo()

		pending := []questions.Question{
			{ID: "a", Type: "gcd", Prompt: "gcd(4, 6) = ", Answer: "2", AnswerType: questions.AnswerTypeInteger},
			{ID: "b", Type: "comparison", Prompt: "3 _ 4  ", Answer: "<", AnswerType: questions.AnswerTypeSymbol},
		}
		if err := repo.SaveUnanswered(ctx, "ada", pending); err != nil {
			t.Fatalf("SaveUnanswered: %v", err)
		}
		h, err := repo.LoadHistory(ctx, "ada")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(h.Unanswered) != 2 || h.Unanswered[0].ID != "a" || h.Unanswered[1].ID != "b" {
			t.Fatalf("Unanswered = %+v", h.Unanswered)
		}

		if err := repo.SaveUnanswered(ctx, "ada", nil); err != nil {
			t.Fatalf("clear: %v", err)
		}
		h, _ = repo.LoadHistory(ctx, "ada")
		if len(h.Unanswered) != 0 {
			t.Errorf("expected no unanswered, got %d", len(h.Unanswered))
		}
	})
}

func TestReset(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		repo := b.HistoryRepo()

		_ = repo.AppendSessionResult(ctx, "ada", sampleResult(time.Now()))
		_ = repo.AppendSessionResult(ctx, "bob", sampleResult(time.Now()))

		if err := repo.Reset(ctx, "ada"); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if err := repo.Reset(ctx, "nobody"); err != nil {
			t.Fatalf("Reset of unknown learner: %v", err)
		}

		h, _ := repo.LoadHistory(ctx, "ada")
		if len(h.Results) != 0 {
			t.Error("ada should have no history after reset")
		}
		h, _ = repo.LoadHistory(ctx, "bob")
		if len(h.Results) != 1 {
			t.Error("bob should keep his history")
		}
	})
}

func TestLearners(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		repo := b.HistoryRepo()
		_ = repo.AppendSessionResult(ctx, "zoe", sampleResult(time.Now()))
		_ = repo.AppendSessionResult(ctx, "ada", sampleResult(time.Now()))
		_ = repo.SaveUnanswered(ctx, "ada", []questions.Question{{ID: "p-0", Type: "gcd"}})
		_ = b.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock"})

		// Closed before answering anything: only pending questions are stored.
		pending := []questions.Question{{ID: "p-1", Type: "addition", Prompt: "1 + 1 = ", Answer: "2"}}
		if err := repo.SaveUnanswered(ctx, "max", pending); err != nil {
			t.Fatalf("SaveUnanswered: %v", err)
		}

		got, err := repo.Learners(ctx)
		if err != nil {
			t.Fatalf("Learners: %v", err)
		}
		want := []string{"ada", "max", "zoe"}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("Learners = %v, want %v", got, want)
		}
	})
}

func TestInvalidLearner(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		for _, name := range []string{"", "../etc", "a/b", ".hidden"} {
			_, err := b.HistoryRepo().LoadHistory(context.Background(), name)
			if !errors.Is(err, ErrInvalidLearner) {
				t.Errorf("LoadHistory(%q) err = %v, want ErrInvalidLearner", name, err)
			}
		}
	})
}

func TestLLMEvents(t *testing.T) {
	backends(t, func(t *testing.T, b Backend) {
		ctx := context.Background()
		events := b.EventRepo()

		for i, purpose := range []string{"tutor-explain", "tutor-explain", "other"} {
			errMsg := ""
			if i == 1 {
				errMsg = "boom"
			}
			err := events.AppendLLMRequest(ctx, LLMRequestEventData{
				Provider:     "mock",
				Model:        "mock-model",
				Purpose:      purpose,
				InputTokens:  10 + i,
				OutputTokens: 5,
				LatencyMs:    120,
				Success:      i != 1,
				ErrorMessage: errMsg,
			})
			if err != nil {
				t.Fatalf("AppendLLMRequest: %v", err)
			}
		}

		all, err := events.QueryLLMEvents(ctx, QueryOpts{})
		if err != nil {
			t.Fatalf("QueryLLMEvents: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("got %d events, want 3", len(all))
		}
		if all[0].Purpose != "other" || all[0].Sequence < all[1].Sequence {
			t.Error("events should be newest first")
		}
		if all[1].Success || all[1].ErrorMessage != "boom" {
			t.Errorf("failed event = %+v", all[1])
		}

		tutor, _ := events.QueryLLMEvents(ctx, QueryOpts{Purpose: "tutor-explain", Limit: 1})
		if len(tutor) != 1 || tutor[0].InputTokens != 11 {
			t.Errorf("purpose+limit query = %+v", tutor)
		}

		got, err := events.GetLLMEvent(ctx, all[2].ID)
		if err != nil || got == nil || got.InputTokens != 10 {
			t.Errorf("GetLLMEvent = %+v, %v", got, err)
		}
		missing, err := events.GetLLMEvent(ctx, 999)
		if err != nil || missing != nil {
			t.Errorf("missing event = %+v, %v", missing, err)
		}
	})
}

func TestPragmasApplied(t *testing.T) {
	db := openTestStore(t).DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSessionSequencePerLearner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.HistoryRepo()

	for _, learner := range []string{"ada", "bo", "ada"} {
		if err := repo.AppendSessionResult(ctx, learner, sampleResult(time.Now())); err != nil {
			t.Fatalf("AppendSessionResult(%s): %v", learner, err)
		}
	}

	tests := []struct {
		learner string
		want    []int64
	}{
		{"ada", []int64{1, 2}},
		{"bo", []int64{1}},
	}
	for _, tt := range tests {
		rows, err := s.DB().Query(`SELECT sequence FROM session_results WHERE learner = ? ORDER BY sequence`, tt.learner)
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		var got []int64
		for rows.Next() {
			var n int64
			if err := rows.Scan(&n); err != nil {
				t.Fatalf("scan: %v", err)
			}
			got = append(got, n)
		}
		rows.Close()
		if len(got) != len(tt.want) {
			t.Fatalf("%s sequences = %v, want %v", tt.learner, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s sequences = %v, want %v", tt.learner, got, tt.want)
				break
			}
		}
	}
}

func TestEventSequenceMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	events := s.EventRepo()

	for range 5 {
		if err := events.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock"}); err != nil {
			t.Fatalf("AppendLLMRequest: %v", err)
		}
	}
	all, err := events.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents: %v", err)
	}
	for i, e := range all {
		if want := int64(len(all) - i); e.Sequence != want {
			t.Errorf("event %d sequence = %d, want %d", e.ID, e.Sequence, want)
		}
	}
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()

	b, err := OpenBackend(KindSQLite, dir)
	if err != nil {
		t.Fatalf("OpenBackend sqlite: %v", err)
	}
	b.Close()
	if _, err := os.Stat(filepath.Join(dir, DBFile)); err != nil {
		t.Errorf("database file missing: %v", err)
	}

	if _, err := OpenBackend("csv", dir); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("err = %v, want ErrUnknownBackend", err)
	}
}

func TestFileStore_WritesReadableYAML(t *testing.T) {
	f := openTestFiles(t)
	if err := f.AppendSessionResult(context.Background(), "ada", sampleResult(time.Now())); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(f.Dir(), "ada.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"results:", "outcomes:", "answer_type: integer", "given: \"5\""} {
		if !strings.Contains(string(data), want) {
			t.Errorf("yaml missing %q:\n%s", want, data)
		}
	}
}

func TestDefaultDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv("MATHQUIZ_DATA", dir)

	got, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != dir {
		t.Errorf("DefaultDataDir = %q, want %q", got, dir)
	}

	t.Setenv("MATHQUIZ_DATA", "")
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "xdg"))
	got, _ = DefaultDataDir()
	if filepath.Base(got) != "mathquiz" {
		t.Errorf("DefaultDataDir = %q, want .../mathquiz", got)
	}
}
