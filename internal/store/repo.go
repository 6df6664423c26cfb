package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/session"
)

// ErrInvalidLearner is returned for learner names that cannot be used as
// a file name or key.
var ErrInvalidLearner = errors.New("invalid learner name")

var learnerRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateLearner checks that name is a usable learner identifier.
func ValidateLearner(name string) error {
	if !learnerRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidLearner, name)
	}
	return nil
}

// HistoryRepo persists each learner's session history.
type HistoryRepo interface {
	// LoadHistory returns the learner's history, or an empty one if the
	// learner has none.
	LoadHistory(ctx context.Context, learner string) (*session.History, error)

	// AppendSessionResult adds a finished session to the learner's history.
	AppendSessionResult(ctx context.Context, learner string, result *session.Result) error

	// SaveUnanswered replaces the learner's pending questions.
	SaveUnanswered(ctx context.Context, learner string, pending []questions.Question) error

	// Reset deletes everything stored for the learner.
	Reset(ctx context.Context, learner string) error

	// Learners lists every learner with stored history, sorted.
	Learners(ctx context.Context) ([]string, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact match when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID           int       `yaml:"id"`
	Sequence     int64     `yaml:"sequence"`
	Timestamp    time.Time `yaml:"timestamp"`
	Provider     string    `yaml:"provider"`
	Model        string    `yaml:"model"`
	Purpose      string    `yaml:"purpose"`
	InputTokens  int       `yaml:"input_tokens"`
	OutputTokens int       `yaml:"output_tokens"`
	LatencyMs    int64     `yaml:"latency_ms"`
	Success      bool      `yaml:"success"`
	ErrorMessage string    `yaml:"error_message,omitempty"`
	RequestBody  string    `yaml:"request_body,omitempty"`
	ResponseBody string    `yaml:"response_body,omitempty"`
}

// matches reports whether e passes the filters in opts.
func (opts QueryOpts) matches(e *LLMRequestEventRecord) bool {
	switch {
	case opts.After > 0 && e.Sequence <= opts.After:
		return false
	case opts.Before > 0 && e.Sequence >= opts.Before:
		return false
	case !opts.From.IsZero() && e.Timestamp.Before(opts.From):
		return false
	case !opts.To.IsZero() && e.Timestamp.After(opts.To):
		return false
	case opts.Purpose != "" && e.Purpose != opts.Purpose:
		return false
	}
	return true
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns matching events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event by ID, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}

// Backend is an opened storage backend.
type Backend interface {
	HistoryRepo() HistoryRepo
	EventRepo() EventRepo
	Close() error
}
