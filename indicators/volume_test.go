package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/stretchr/testify/assert"
)

func TestOBV(t *testing.T) {
	t.Parallel()

	candles := []market.Candle{
		{Close: 10, Volume: 5},
		{Close: 11, Volume: 3},
		{Close: 11, Volume: 7},
		{Close: 9, Volume: 2},
	}
	assert.Equal(t, []float64{0, 3, 3, 1}, OBV(candles))
}

func TestVWAPResetsEachUTCDay(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	candles := []market.Candle{
		{Time: day, High: 10, Low: 10, Close: 10, Volume: 1},
		{Time: day.Add(30 * time.Minute), High: 20, Low: 20, Close: 20, Volume: 1},
		{Time: day.Add(time.Hour), High: 30, Low: 30, Close: 30, Volume: 2},
		{Time: day.Add(90 * time.Minute), High: 60, Low: 60, Close: 60, Volume: 1},
	}

	out := VWAP(candles)
	assert.InDelta(t, 10.0, out[0], 1e-9)
	assert.InDelta(t, 15.0, out[1], 1e-9)
	assert.InDelta(t, 30.0, out[2], 1e-9)
	assert.InDelta(t, 40.0, out[3], 1e-9)
}

func TestVWAPZeroVolumeIsNaN(t *testing.T) {
	t.Parallel()

	out := VWAP([]market.Candle{{Time: t0, High: 1, Low: 1, Close: 1}})
	assert.True(t, math.IsNaN(out[0]))
}
