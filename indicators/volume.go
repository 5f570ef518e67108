package indicators

import (
	"math"

	"github.com/rustyeddy/cryptobot/market"
)

// OBV is on-balance volume, starting at 0 on the first candle.
func OBV(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		out[i] = out[i-1]
		switch {
		case candles[i].Close > candles[i-1].Close:
			out[i] += candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			out[i] -= candles[i].Volume
		}
	}
	return out
}

// VWAP is the volume weighted average typical price, anchored at the start of
// each UTC day. Candles without timestamps share one anchor. Positions with no
// cumulative volume are NaN.
func VWAP(candles []market.Candle) []float64 {
	out := nans(len(candles))

	var (
		day      string
		pv, vol  float64
		anchored bool
	)
	for i, c := range candles {
		d := ""
		if !c.Time.IsZero() {
			d = c.Time.UTC().Format("2006-01-02")
		}
		if !anchored || d != day {
			day, pv, vol, anchored = d, 0, 0, true
		}

		pv += c.TypicalPrice() * c.Volume
		vol += c.Volume
		if vol > 0 {
			out[i] = pv / vol
		}
	}
	return out
}

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
