package indicators

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 7, p.FastMA)
	assert.Equal(t, 25, p.SlowMA)
	assert.Equal(t, 20, p.BBLength)
	assert.Equal(t, 2.0, p.BBStd)
	assert.Equal(t, 26, p.MACDSlow)
	assert.Equal(t, 5, p.PivotOrder)
	assert.Equal(t, 30, NewEngine(p).MinCandles())
}

func TestEngineInsufficientData(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultParams())
	ctx, err := e.Compute("BTC-USDT", candlesFrom(ramp(29, 100, 1)...))
	require.ErrorIs(t, err, ErrInsufficientData)
	assert.False(t, ctx.Valid())
	assert.Equal(t, Context{}, ctx)
}

func TestEngineMalformedClose(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(ramp(40, 100, 1)...)
	candles[10].Close = math.NaN()

	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candles)
	require.ErrorIs(t, err, ErrInsufficientData)
	assert.False(t, ctx.Valid())
}

func TestEngineUptrend(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(ramp(60, 100, 1)...)
	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candles)
	require.NoError(t, err)
	require.True(t, ctx.Valid())

	assert.Equal(t, "BTC-USDT", ctx.Symbol)
	assert.Equal(t, candles[59].Time, ctx.Time)
	assert.Equal(t, 159.0, ctx.Close)
	assert.Greater(t, ctx.MAFast, ctx.MASlow)
	assert.Equal(t, Bullish, ctx.Trend)
	assert.Equal(t, "LONG", ctx.Trend.Signal())
	assert.InDelta(t, 100.0, ctx.RSI, 1e-9)
	assert.Greater(t, ctx.MACD, 0.0)
	assert.Greater(t, ctx.OBV, ctx.PrevOBV)
	assert.Greater(t, ctx.ATR, 0.0)
	assert.InDelta(t, ctx.Close-2*ctx.ATR, ctx.ATRStopLong, 1e-9)
	assert.InDelta(t, ctx.Close+2*ctx.ATR, ctx.ATRStopShort, 1e-9)
	assert.InDelta(t, 2*ctx.ATR/ctx.Close*100, ctx.RiskPct, 1e-9)
}

func TestEngineDowntrend(t *testing.T) {
	t.Parallel()

	ctx, err := NewEngine(DefaultParams()).Compute("ETH-USDT", candlesFrom(ramp(60, 200, -1)...))
	require.NoError(t, err)
	assert.Equal(t, Bearish, ctx.Trend)
	assert.Equal(t, "SHORT", ctx.Trend.Signal())
	assert.InDelta(t, 0.0, ctx.RSI, 1e-9)
}

func TestEngineTieIsShort(t *testing.T) {
	t.Parallel()

	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candlesFrom(ramp(40, 100, 0)...))
	require.NoError(t, err)
	assert.Equal(t, ctx.MAFast, ctx.MASlow)
	assert.Equal(t, Bearish, ctx.Trend)
}

func TestEngineATRFloor(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(ramp(40, 100, 0)...)
	for i := range candles {
		candles[i].High, candles[i].Low, candles[i].Open = 100, 100, 100
	}

	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candles)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ctx.ATR, 1e-9)
	assert.InDelta(t, 2.0, ctx.RiskPct, 1e-9)
}

func TestEngineMinimumLengthHasNoNaN(t *testing.T) {
	t.Parallel()

	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candlesFrom(wave(30)...))
	require.NoError(t, err)

	for name, v := range map[string]float64{
		"macd": ctx.MACD, "signal": ctx.MACDSignal, "hist": ctx.MACDHist,
		"rsi": ctx.RSI, "k": ctx.K, "mfi": ctx.MFI, "vwap": ctx.VWAP,
		"bb": ctx.BBUpper, "atr": ctx.ATR,
	} {
		assert.False(t, math.IsNaN(v), name)
		assert.False(t, math.IsInf(v, 0), name)
	}
	// MACD signal needs more than 30 candles, so it is zero-filled.
	assert.Equal(t, 0.0, ctx.MACDSignal)
}

func TestEngineOscillatorBounds(t *testing.T) {
	t.Parallel()

	candles := candlesFrom(wave(120)...)
	e := NewEngine(DefaultParams())
	for end := e.MinCandles(); end <= len(candles); end += 7 {
		ctx, err := e.Compute("BTC-USDT", candles[:end])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, ctx.RSI, 0.0)
		assert.LessOrEqual(t, ctx.RSI, 100.0)
		assert.GreaterOrEqual(t, ctx.MFI, 0.0)
		assert.LessOrEqual(t, ctx.MFI, 100.0)
		assert.LessOrEqual(t, ctx.BBLower, ctx.BBMiddle)
		assert.GreaterOrEqual(t, ctx.BBUpper, ctx.BBMiddle)
		assert.LessOrEqual(t, len(ctx.Pivots), 5)
	}
}

func TestEnginePivots(t *testing.T) {
	t.Parallel()

	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candlesFrom(wave(120)...))
	require.NoError(t, err)
	require.Len(t, ctx.Pivots, 5)
	for i := 1; i < len(ctx.Pivots); i++ {
		assert.Less(t, ctx.Pivots[i-1].Index, ctx.Pivots[i].Index)
	}
}

func TestContextFlags(t *testing.T) {
	c := Context{Close: 100, BBUpper: 100, BBLower: 90, J: 120, MFI: 10, VWAP: 95, OBV: 5, PrevOBV: 4}
	assert.Equal(t, "at upper band", c.BandPosition())
	assert.Equal(t, "J overbought (>100)", c.KDJStatus())
	assert.Equal(t, "oversold (<20)", c.MFIStatus())
	assert.True(t, c.AboveVWAP())
	assert.True(t, c.OBVRising())

	c = Context{Close: 95, BBUpper: 100, BBLower: 90, J: 50, MFI: 50}
	assert.Equal(t, "inside bands", c.BandPosition())
	assert.Equal(t, "normal", c.KDJStatus())
	assert.Equal(t, "neutral", c.MFIStatus())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no indicator data\n", Summary(Context{}))

	ctx, err := NewEngine(DefaultParams()).Compute("BTC-USDT", candlesFrom(wave(120)...))
	require.NoError(t, err)

	s := Summary(ctx)
	assert.True(t, strings.HasPrefix(s, "[BTC-USDT]"))
	assert.Contains(t, s, "MA7=")
	assert.Contains(t, s, "MA25=")
	assert.Contains(t, s, "RSI(14)")
	assert.Contains(t, s, "ATR(14)")
	assert.Contains(t, s, "VWAP")
}

func TestContextKDJCross(t *testing.T) {
	assert.Equal(t, "golden", Context{PrevK: 40, PrevD: 45, K: 50, D: 46}.KDJCross())
	assert.Equal(t, "dead", Context{PrevK: 50, PrevD: 45, K: 40, D: 44}.KDJCross())
	assert.Equal(t, "", Context{PrevK: 50, PrevD: 45, K: 55, D: 46}.KDJCross())
}
