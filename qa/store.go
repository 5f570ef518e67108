package qa

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

var ErrNotFound = errors.New("question not found")

// DefaultQuestions seeds a missing question file.
var DefaultQuestions = []Question{
	{ID: "example01", Question: "Example: ETH trend analysis", Answered: false, Frequency: 3600},
}

// Store keeps questions in a JSON array file.
type Store struct {
	path     string
	mu       sync.Mutex
	validate *validator.Validate
}

func NewStore(path string) *Store {
	return &Store{path: path, validate: validator.New()}
}

func (s *Store) Path() string { return s.path }

// Load reads all questions. A missing file is created with
// DefaultQuestions.
func (s *Store) Load() ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Question, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		qs := append([]Question(nil), DefaultQuestions...)
		if err := s.save(qs); err != nil {
			return nil, err
		}
		return qs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read questions %s: %w", s.path, err)
	}

	var qs []Question
	if len(raw) == 0 {
		return qs, nil
	}
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("parse questions %s: %w", s.path, err)
	}
	return qs, nil
}

func (s *Store) save(qs []Question) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(qs, "", "    ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write questions: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// Add validates q and appends it. IDs must be unique.
func (s *Store) Add(q Question) error {
	if err := s.validate.Struct(q); err != nil {
		return fmt.Errorf("invalid question: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	qs, err := s.load()
	if err != nil {
		return err
	}
	for _, have := range qs {
		if have.ID == q.ID {
			return fmt.Errorf("question %q already exists", q.ID)
		}
	}
	return s.save(append(qs, q))
}

// MarkAnswered sets the answered flag and timestamp for id.
func (s *Store) MarkAnswered(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	qs, err := s.load()
	if err != nil {
		return err
	}
	for i := range qs {
		if qs[i].ID == id {
			qs[i].Answered = true
			qs[i].AnsweredAt = at.UTC().Format(TimeLayout)
			return s.save(qs)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
