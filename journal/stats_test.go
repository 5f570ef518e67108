package journal

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(sampleEntries())
	assert.Equal(t, 6, s.Entries)
	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, 9.895-5.1125, s.RealizedPnL, 1e-9)
	assert.InDelta(t, 9.895, s.GrossProfit, 1e-9)
	assert.InDelta(t, 5.1125, s.GrossLoss, 1e-9)
	assert.InDelta(t, 9.895/5.1125, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 1004.7825, s.LastEquity, 1e-9)
}

func TestSummarizeRoundTrip(t *testing.T) {
	t.Parallel()

	pnls := []float64{1.5, -2.25, 0, 3, -0.5, 0, 7.125}
	var entries []Entry
	sum, wins, losses := 0.0, 0, 0
	for i, p := range pnls {
		entries = append(entries, Entry{Action: CloseLong, RealizedPnL: p, Time: t0.Add(time.Duration(i) * time.Minute)})
		sum += p
		if p > 0 {
			wins++
		} else if p < 0 {
			losses++
		}
	}

	s := Summarize(entries)
	assert.Equal(t, sum, s.RealizedPnL)
	assert.Equal(t, wins, s.Wins)
	assert.Equal(t, losses, s.Losses)
	assert.Equal(t, len(pnls), s.Trades)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	assert.Len(t, Filter{Symbol: "eth-usdt"}.Apply(entries), 2)
	assert.Len(t, Filter{Action: CloseLong}.Apply(entries), 2)
	assert.Len(t, Filter{Since: t0.Add(time.Hour), Until: t0.Add(2 * time.Hour)}.Apply(entries), 2)
	assert.Len(t, Filter{}.Apply(entries), 6)
}

func TestFindAndLastOpen(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	e, ok := Find(entries, "01C")
	require.True(t, ok)
	assert.Equal(t, OpenShort, e.Action)
	_, ok = Find(entries, "zzz")
	assert.False(t, ok)

	e, ok = LastOpen(entries, "BTC-USDT", OpenShort)
	require.True(t, ok)
	assert.Equal(t, 110.0, e.Price)
	_, ok = LastOpen(entries, "SOL-USDT", OpenLong)
	assert.False(t, ok)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries()))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"01B", "2024-06-01 10:30:00", "BTC-USDT", "CLOSE_LONG", "110.000000", "1.000000", "reverse", "9.895000", "1009.895000"}, rows[2])
}

func TestFormatEntryOrg(t *testing.T) {
	t.Parallel()

	out := FormatEntryOrg(Entry{ID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", Time: t0, Symbol: "BTC-USDT", Action: CloseLong, Price: 110, Amount: 1, Tag: "take-profit", RealizedPnL: 9.9, Equity: 1009.9})
	assert.True(t, strings.HasPrefix(out, "** CLOSE_LONG BTC-USDT (01HZZZZZ)\n"))
	assert.Contains(t, out, ":PROPERTIES:\n")
	assert.Contains(t, out, ":TIME: 2024-06-01T09:30:00Z\n")
	assert.Contains(t, out, ":REALIZED_PNL: 9.9000\n")
	assert.Contains(t, out, "*** Review")

	open := FormatEntryOrg(sampleEntries()[0])
	assert.NotContains(t, open, "REALIZED_PNL")
	assert.Contains(t, open, "(01A)")

	all := FormatEntriesOrg(sampleEntries()[:2])
	assert.Equal(t, 2, strings.Count(all, ":END:"))
}
