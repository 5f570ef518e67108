package journal

import (
	"path/filepath"
	"testing"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OpenLong, OpenAction(market.Long))
	assert.Equal(t, OpenShort, OpenAction(market.Short))
	assert.Equal(t, CloseLong, CloseAction(market.Long))
	assert.Equal(t, CloseShort, CloseAction(market.Short))

	assert.True(t, CloseShort.IsClose())
	assert.False(t, OpenLong.IsClose())
	assert.Equal(t, market.Short, CloseShort.Side())
	assert.Equal(t, market.Flat, Action("HOLD").Side())

	a, err := ParseAction(" close_long ")
	require.NoError(t, err)
	assert.Equal(t, CloseLong, a)
	_, err = ParseAction("buy")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	j, err := Open("json", filepath.Join(dir, "trades.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONFile{}, j)

	j, err = Open("sqlite", filepath.Join(dir, "trades.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, j)
	require.NoError(t, j.Close())

	j, err = Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, j)

	_, err = Open("postgres", "")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	for _, e := range sampleEntries() {
		require.NoError(t, m.Append(e))
	}
	got, err := m.ReplayAll()
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)

	got[0].Symbol = "changed"
	again, _ := m.ReplayAll()
	assert.Equal(t, "BTC-USDT", again[0].Symbol)
}
