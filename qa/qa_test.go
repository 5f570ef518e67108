package qa

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		q    Question
		want bool
	}{
		{"unanswered", Question{Answered: false}, true},
		{"answered once", Question{Answered: true, AnsweredAt: "2024-06-01 11:00:00"}, false},
		{"recurring elapsed", Question{Answered: true, Frequency: 3600, AnsweredAt: "2024-06-01 11:00:00"}, true},
		{"recurring not yet", Question{Answered: true, Frequency: 3600, AnsweredAt: "2024-06-01 11:00:01"}, false},
		{"recurring bad time", Question{Answered: true, Frequency: 60, AnsweredAt: "yesterday"}, true},
		{"recurring no time", Question{Answered: true, Frequency: 60}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.Due(now))
		})
	}
}

func TestStoreCreatesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "questions.json")
	s := NewStore(path)

	qs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultQuestions, qs)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStoreAddAndMark(t *testing.T) {
	t.Parallel()

	s := NewStore(filepath.Join(t.TempDir(), "q.json"))
	require.NoError(t, s.Add(Question{ID: "q1", Question: "BTC outlook?"}))
	assert.Error(t, s.Add(Question{ID: "q1", Question: "dup"}))
	assert.Error(t, s.Add(Question{ID: "", Question: "no id"}))
	assert.Error(t, s.Add(Question{ID: "q2", Question: "neg", Frequency: -1}))

	require.NoError(t, s.MarkAnswered("q1", now))
	assert.ErrorIs(t, s.MarkAnswered("missing", now), ErrNotFound)

	qs, err := s.Load()
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.True(t, qs[1].Answered)
	assert.Equal(t, "2024-06-01 12:00:00", qs[1].AnsweredAt)
}

func TestStoreCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "q.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

type echo struct{ asked []string }

func (e *echo) Answer(_ context.Context, q string) string {
	e.asked = append(e.asked, q)
	return "<p>answer</p>"
}

type mailer struct {
	subjects []string
	err      error
}

func (m *mailer) Send(_ context.Context, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.subjects = append(m.subjects, subject)
	return nil
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "q.json"))
	require.NoError(t, s.save([]Question{
		{ID: "new", Question: "fresh?"},
		{ID: "done", Question: "old", Answered: true, AnsweredAt: "2024-06-01 10:00:00"},
		{ID: "hourly", Question: "trend?", Answered: true, Frequency: 3600, AnsweredAt: "2024-06-01 10:00:00"},
	}))
	return s
}

func TestProcess(t *testing.T) {
	t.Parallel()

	s := seeded(t)
	a, m := &echo{}, &mailer{}
	svc := NewService(s, a, m, zerolog.Nop())
	svc.SetClock(func() time.Time { return now })

	n, err := svc.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"fresh?", "trend?"}, a.asked)
	assert.Equal(t, []string{"AI answer: new", "[recurring] AI answer: hourly"}, m.subjects)

	// second pass in the same instant has nothing due
	n, err = svc.Process(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessMailFailureLeavesUnanswered(t *testing.T) {
	t.Parallel()

	s := seeded(t)
	svc := NewService(s, &echo{}, &mailer{err: errors.New("smtp down")}, zerolog.Nop())
	svc.SetClock(func() time.Time { return now })

	n, err := svc.Process(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	qs, err := s.Load()
	require.NoError(t, err)
	assert.False(t, qs[0].Answered)
	assert.Equal(t, "2024-06-01 10:00:00", qs[2].AnsweredAt)
}

func TestBodyEscapesQuestion(t *testing.T) {
	t.Parallel()

	b := Body(Question{ID: "x", Question: "<script>"}, "<p>a</p>")
	assert.Contains(t, b, "&lt;script&gt;")
	assert.Contains(t, b, "<p>a</p>")
}
