package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACDRisingSeriesPositive(t *testing.T) {
	t.Parallel()

	line, sig, hist, err := MACD(ramp(60, 100, 1), 12, 26, 9)
	require.NoError(t, err)
	assert.Greater(t, line[59], 0.0)
	assert.False(t, math.IsNaN(sig[59]))
	assert.InDelta(t, line[59]-sig[59], hist[59], 1e-9)
	assert.True(t, math.IsNaN(line[24]))
}

func TestMACDShortSignalIsNaN(t *testing.T) {
	t.Parallel()

	line, sig, hist, err := MACD(ramp(30, 100, 1), 12, 26, 9)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(line[29]))
	assert.True(t, math.IsNaN(sig[29]))
	assert.True(t, math.IsNaN(hist[29]))

	_, _, _, err = MACD(ramp(20, 100, 1), 12, 26, 9)
	assert.Error(t, err)
}

func TestRSI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"all gains", ramp(20, 100, 1), 100},
		{"all losses", ramp(20, 100, -1), 0},
		{"flat", ramp(20, 100, 0), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RSI(tt.closes, 14)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, out[len(out)-1], 1e-9)
			assert.True(t, math.IsNaN(out[13]))
		})
	}
}

func TestRSIBounded(t *testing.T) {
	t.Parallel()

	out, err := RSI(wave(100), 14)
	require.NoError(t, err)
	for _, v := range out[14:] {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestKDJ(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(wave(80)...)
	k, d, j, err := KDJ(candles, 9, 3)
	require.NoError(t, err)

	for i := 8; i < len(candles); i++ {
		assert.GreaterOrEqual(t, k[i], 0.0)
		assert.LessOrEqual(t, k[i], 100.0)
		assert.InDelta(t, 3*k[i]-2*d[i], j[i], 1e-9)
	}
	assert.True(t, math.IsNaN(k[7]))
}

func TestKDJFlatWindow(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(ramp(20, 100, 0)...)
	for i := range candles {
		candles[i].High, candles[i].Low = 100, 100
	}
	k, d, j, err := KDJ(candles, 9, 3)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, k[19], 1e-9)
	assert.InDelta(t, 50.0, d[19], 1e-9)
	assert.InDelta(t, 50.0, j[19], 1e-9)
}

func TestMFI(t *testing.T) {
	t.Parallel()

	up, err := MFI(candlesFrom(ramp(30, 100, 1)...), 14)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, up[29], 1e-9)

	flat, err := MFI(candlesFrom(ramp(30, 100, 0)...), 14)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, flat[29], 1e-9)

	mixed, err := MFI(candlesFrom(wave(60)...), 14)
	require.NoError(t, err)
	for _, v := range mixed[14:] {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}
