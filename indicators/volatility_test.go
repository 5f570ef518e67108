package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBollinger(t *testing.T) {
	t.Parallel()

	mid, up, low, err := Bollinger([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 2)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mid[7], 1e-9)
	assert.InDelta(t, 9.0, up[7], 1e-9)
	assert.InDelta(t, 1.0, low[7], 1e-9)
	assert.True(t, math.IsNaN(up[6]))
}

func TestTrueRange(t *testing.T) {
	t.Parallel()

	prev := market.Candle{Close: 10}
	assert.Equal(t, 4.0, trueRange(market.Candle{High: 12, Low: 8}, prev))
	assert.Equal(t, 5.0, trueRange(market.Candle{High: 15, Low: 13}, prev))
	assert.Equal(t, 4.0, trueRange(market.Candle{High: 7, Low: 6}, prev))
}

func TestATRConstantRange(t *testing.T) {
	t.Parallel()

	candles := make([]market.Candle, 20)
	for i := range candles {
		candles[i] = market.Candle{
			Time:  t0.Add(time.Duration(i) * time.Minute),
			Open:  100,
			High:  101,
			Low:   99,
			Close: 100,
		}
	}

	out, err := ATR(candles, 14)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[13]))
	assert.InDelta(t, 2.0, out[14], 1e-9)
	assert.InDelta(t, 2.0, out[19], 1e-9)

	_, err = ATR(candles[:14], 14)
	assert.Error(t, err)
}
