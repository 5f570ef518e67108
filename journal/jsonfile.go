package journal

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// record is the flat on-disk form of an Entry.
type record struct {
	ID          string  `json:"id"`
	Timestamp   string  `json:"timestamp"`
	Symbol      string  `json:"symbol"`
	Action      Action  `json:"action"`
	Price       float64 `json:"price"`
	Amount      float64 `json:"amount"`
	Tag         string  `json:"tag"`
	RealizedPnL float64 `json:"realized_pnl"`
	Equity      float64 `json:"account_equity"`
}

func toRecord(e Entry) record {
	return record{
		ID:          e.ID,
		Timestamp:   e.Time.UTC().Format(TimeLayout),
		Symbol:      e.Symbol,
		Action:      e.Action,
		Price:       e.Price,
		Amount:      e.Amount,
		Tag:         e.Tag,
		RealizedPnL: e.RealizedPnL,
		Equity:      e.Equity,
	}
}

func (r record) entry() (Entry, error) {
	t, err := time.ParseInLocation(TimeLayout, r.Timestamp, time.UTC)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %q: bad timestamp %q: %w", r.ID, r.Timestamp, err)
	}
	return Entry{
		ID:          r.ID,
		Time:        t,
		Symbol:      r.Symbol,
		Action:      r.Action,
		Price:       r.Price,
		Amount:      r.Amount,
		Tag:         r.Tag,
		RealizedPnL: r.RealizedPnL,
		Equity:      r.Equity,
	}, nil
}

// JSONFile keeps the journal as a single JSON array. Each append rewrites the
// file through a temporary file and a rename, so a crash leaves either the
// old or the new array on disk.
type JSONFile struct {
	mu   sync.Mutex
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Path() string { return j.path }

func (j *JSONFile) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	recs, err := j.load()
	if err != nil {
		return err
	}
	recs = append(recs, toRecord(e))

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}
	if err := writeAtomic(j.path, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (j *JSONFile) ReplayAll() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	recs, err := j.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(recs))
	for _, r := range recs {
		e, err := r.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (j *JSONFile) Close() error { return nil }

// load reads the array; a missing or blank file is an empty journal.
func (j *JSONFile) load() ([]record, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, j.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrPersistence, j.path, err)
	}
	return recs, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
