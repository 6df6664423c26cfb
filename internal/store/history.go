package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/session"
)

const (
	tableResults    = "session_results"
	tableUnanswered = "unanswered_questions"
)

// historyRepo implements HistoryRepo on SQLite.
type historyRepo struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *historyRepo) LoadHistory(ctx context.Context, learner string) (*session.History, error) {
	if err := ValidateLearner(learner); err != nil {
		return nil, err
	}

	h := &session.History{}

	query, args := builder().
		Select("id", "started_at", "finished_at", "outcomes").
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("learner", learner)).
		OrderBy("sequence").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			res               session.Result
			started, finished int64
			outcomes          string
		)
		if err := rows.Scan(&res.ID, &started, &finished, &outcomes); err != nil {
			return nil, fmt.Errorf("scan session result: %w", err)
		}
		res.StartedAt = fromUnixNano(started)
		res.FinishedAt = fromUnixNano(finished)
		if err := json.Unmarshal([]byte(outcomes), &res.Outcomes); err != nil {
			return nil, fmt.Errorf("decode outcomes of %s: %w", res.ID, err)
		}
		h.Results = append(h.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session results: %w", err)
	}

	pending, err := r.loadUnanswered(ctx, learner)
	if err != nil {
		return nil, err
	}
	h.Unanswered = pending
	return h, nil
}

func (r *historyRepo) loadUnanswered(ctx context.Context, learner string) ([]questions.Question, error) {
	query, args := builder().
		Select("question").
		From(entsql.Table(tableUnanswered)).
		Where(entsql.EQ("learner", learner)).
		OrderBy("position").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unanswered: %w", err)
	}
	defer rows.Close()

	var out []questions.Question
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan unanswered: %w", err)
		}
		var q questions.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("decode unanswered question: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *historyRepo) AppendSessionResult(ctx context.Context, learner string, result *session.Result) error {
	if err := ValidateLearner(learner); err != nil {
		return err
	}

	outcomes, err := json.Marshal(result.Outcomes)
	if err != nil {
		return fmt.Errorf("encode outcomes: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		seq, err := nextSequence(ctx, tx, tableResults, entsql.EQ("learner", learner))
		if err != nil {
			return err
		}
		query, args := builder().
			Insert(tableResults).
			Columns("id", "learner", "sequence", "started_at", "finished_at", "outcomes").
			Values(result.ID, learner, seq, toUnixNano(result.StartedAt), toUnixNano(result.FinishedAt), string(outcomes)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save session result: %w", err)
		}
		return nil
	})
}

func (r *historyRepo) SaveUnanswered(ctx context.Context, learner string, pending []questions.Question) error {
	if err := ValidateLearner(learner); err != nil {
		return err
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query, args := builder().
			Delete(tableUnanswered).
			Where(entsql.EQ("learner", learner)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear unanswered: %w", err)
		}

		for i, q := range pending {
			raw, err := json.Marshal(q)
			if err != nil {
				return fmt.Errorf("encode question %s: %w", q.ID, err)
			}
			query, args := builder().
				Insert(tableUnanswered).
				Columns("learner", "position", "question").
				Values(learner, i, string(raw)).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("save unanswered: %w", err)
			}
		}
		return nil
	})
}

func (r *historyRepo) Reset(ctx context.Context, learner string) error {
	if err := ValidateLearner(learner); err != nil {
		return err
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{tableResults, tableUnanswered} {
			query, args := builder().
				Delete(table).
				Where(entsql.EQ("learner", learner)).
				Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

// Learners includes learners who only have unanswered questions.
func (r *historyRepo) Learners(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, table := range []string{tableResults, tableUnanswered} {
		query, args := builder().
			Select("learner").
			From(entsql.Table(table)).
			Distinct().
			Query()
		if err := r.collectLearners(ctx, query, args, seen); err != nil {
			return nil, err
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (r *historyRepo) collectLearners(ctx context.Context, query string, args []any, seen map[string]bool) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query learners: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan learner: %w", err)
		}
		seen[name] = true
	}
	return rows.Err()
}

// Times are stored as UTC unix nanoseconds; zero means unset.
func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
