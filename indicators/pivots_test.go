package indicators

import (
	"testing"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zigzag builds candles whose highs and lows equal the given prices.
func zigzag(prices ...float64) []market.Candle {
	out := make([]market.Candle, len(prices))
	for i, p := range prices {
		out[i] = market.Candle{Time: t0.Add(minutes(i)), Open: p, High: p, Low: p, Close: p, Volume: 1}
	}
	return out
}

func TestPivotDetectorFind(t *testing.T) {
	t.Parallel()

	d := NewPivotDetector(2)
	candles := zigzag(5, 6, 9, 6, 5, 3, 1, 3, 5, 6, 7)

	got := d.Find(candles)
	require.Len(t, got, 2)
	assert.Equal(t, Pivot{Index: 2, Price: 9, Kind: PivotHigh, Time: candles[2].Time}, got[0])
	assert.Equal(t, Pivot{Index: 6, Price: 1, Kind: PivotLow, Time: candles[6].Time}, got[1])
}

func TestPivotDetectorBoundaryExcluded(t *testing.T) {
	t.Parallel()

	d := NewPivotDetector(2)
	// Index 1 is the highest point but sits within order of the start.
	got := d.Find(zigzag(1, 10, 2, 3, 2, 1, 2))
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Index, 2)
		assert.Less(t, p.Index, 5)
	}
	assert.Empty(t, d.Find(zigzag(1, 2, 3)))
}

func TestPivotDetectorStrict(t *testing.T) {
	t.Parallel()

	// Equal neighbours mean no pivot.
	got := NewPivotDetector(1).Find(zigzag(1, 5, 5, 1))
	assert.Empty(t, got)
}

func TestPivotDetectorLastN(t *testing.T) {
	t.Parallel()

	d := NewPivotDetector(1)
	candles := zigzag(1, 3, 1, 3, 1, 3, 1, 3, 1)

	all := d.Find(candles)
	require.Len(t, all, 7)

	last := d.LastN(candles, 3)
	require.Len(t, last, 3)
	assert.Equal(t, all[4:], last)
	assert.Less(t, last[0].Index, last[2].Index)

	assert.Len(t, d.LastN(candles, 50), 7)
	assert.Nil(t, d.LastN(candles, 0))
}

func TestNewPivotDetectorDefault(t *testing.T) {
	t.Parallel()
	assert.Equal(t, DefaultPivotOrder, NewPivotDetector(0).Order())
}
