package journal

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileMissingIsEmpty(t *testing.T) {
	t.Parallel()

	j := NewJSONFile(filepath.Join(t.TempDir(), "missing.json"))
	got, err := j.ReplayAll()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONFileBlankIsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blank.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	got, err := NewJSONFile(path).ReplayAll()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONFileAppendReplay(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "trade_history.json")
	j := NewJSONFile(path)
	for _, e := range sampleEntries() {
		require.NoError(t, j.Append(e))
	}

	got, err := j.ReplayAll()
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	// The file is a flat JSON array with the documented keys.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 6)
	assert.Equal(t, "2024-06-01 09:30:00", raw[0]["timestamp"])
	assert.Equal(t, "OPEN_LONG", raw[0]["action"])
	assert.Contains(t, raw[1], "realized_pnl")
	assert.Contains(t, raw[1], "account_equity")
}

func TestJSONFileCorruptIsPersistenceError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	j := NewJSONFile(path)
	err := j.Append(sampleEntries()[0])
	require.ErrorIs(t, err, ErrPersistence)

	_, err = j.ReplayAll()
	require.ErrorIs(t, err, ErrPersistence)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "file left untouched")
}

func TestJSONFileBadTimestamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x","timestamp":"yesterday"}]`), 0o644))

	_, err := NewJSONFile(path).ReplayAll()
	assert.ErrorIs(t, err, ErrPersistence)
}
