package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/session"
)

const (
	historyExt = ".yaml"
	eventsFile = "llm-events.yaml"
)

// FileStore is the YAML backend: one document per learner under a data
// directory. Writes replace the whole file, so the last write wins.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// OpenFiles returns a FileStore rooted at dir, creating it if needed.
func OpenFiles(dir string) (*FileStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (f *FileStore) Dir() string { return f.dir }

// Close is a no-op; every write is flushed immediately.
func (f *FileStore) Close() error { return nil }

// HistoryRepo returns the FileStore itself.
func (f *FileStore) HistoryRepo() HistoryRepo { return f }

// EventRepo returns an EventRepo writing to llm-events.yaml.
func (f *FileStore) EventRepo() EventRepo { return &fileEventRepo{store: f} }

func (f *FileStore) historyPath(learner string) string {
	return filepath.Join(f.dir, learner+historyExt)
}

func (f *FileStore) LoadHistory(_ context.Context, learner string) (*session.History, error) {
	if err := ValidateLearner(learner); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(learner)
}

func (f *FileStore) load(learner string) (*session.History, error) {
	h := &session.History{}
	if err := readYAML(f.historyPath(learner), h); err != nil {
		return nil, fmt.Errorf("load history for %s: %w", learner, err)
	}
	return h, nil
}

func (f *FileStore) AppendSessionResult(_ context.Context, learner string, result *session.Result) error {
	return f.update(learner, func(h *session.History) {
		h.Append(*result)
	})
}

func (f *FileStore) SaveUnanswered(_ context.Context, learner string, pending []questions.Question) error {
	return f.update(learner, func(h *session.History) {
		h.Unanswered = pending
	})
}

func (f *FileStore) update(learner string, fn func(*session.History)) error {
	if err := ValidateLearner(learner); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	h, err := f.load(learner)
	if err != nil {
		return err
	}
	fn(h)
	if err := writeYAML(f.historyPath(learner), h); err != nil {
		return fmt.Errorf("save history for %s: %w", learner, err)
	}
	return nil
}

func (f *FileStore) Reset(_ context.Context, learner string) error {
	if err := ValidateLearner(learner); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.historyPath(learner))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reset %s: %w", learner, err)
	}
	return nil
}

func (f *FileStore) Learners(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == eventsFile || !strings.HasSuffix(name, historyExt) {
			continue
		}
		learner := strings.TrimSuffix(name, historyExt)
		if ValidateLearner(learner) == nil {
			out = append(out, learner)
		}
	}
	sort.Strings(out)
	return out, nil
}

// fileEventRepo keeps LLM events in a single YAML list.
type fileEventRepo struct {
	store *FileStore
}

type eventLog struct {
	Events []LLMRequestEventRecord `yaml:"events"`
}

func (r *fileEventRepo) path() string {
	return filepath.Join(r.store.dir, eventsFile)
}

func (r *fileEventRepo) AppendLLMRequest(_ context.Context, data LLMRequestEventData) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var log eventLog
	if err := readYAML(r.path(), &log); err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	next := 1
	if n := len(log.Events); n > 0 {
		next = log.Events[n-1].ID + 1
	}
	log.Events = append(log.Events, LLMRequestEventRecord{
		ID:           next,
		Sequence:     int64(next),
		Timestamp:    time.Now().UTC(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	})

	if err := writeYAML(r.path(), &log); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *fileEventRepo) QueryLLMEvents(_ context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var log eventLog
	if err := readYAML(r.path(), &log); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	var out []LLMRequestEventRecord
	for i := len(log.Events) - 1; i >= 0; i-- {
		e := log.Events[i]
		if !opts.matches(&e) {
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (r *fileEventRepo) GetLLMEvent(_ context.Context, id int) (*LLMRequestEventRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var log eventLog
	if err := readYAML(r.path(), &log); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	for i := range log.Events {
		if log.Events[i].ID == id {
			return &log.Events[i], nil
		}
	}
	return nil, nil
}

// readYAML decodes path into v. A missing or empty file leaves v untouched.
func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeYAML encodes v to a temp file next to path and renames it into place.
func writeYAML(path string, v any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
