package indicators

import (
	"math"
	"time"

	"github.com/rustyeddy/cryptobot/market"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// candlesFrom builds 15m candles around the given closes with a fixed spread.
func candlesFrom(closes ...float64) []market.Candle {
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		out[i] = market.Candle{
			Time:   t0.Add(time.Duration(i) * 15 * time.Minute),
			Open:   open,
			High:   math.Max(open, c) + 1,
			Low:    math.Min(open, c) - 1,
			Close:  c,
			Volume: 100,
		}
	}
	return out
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/3)
	}
	return out
}

func minutes(i int) time.Duration { return time.Duration(i) * time.Minute }
