package indicators

import (
	"math"

	"github.com/rustyeddy/cryptobot/market"
)

// Bollinger returns the middle (SMA), upper and lower bands, mult standard
// deviations from the middle.
func Bollinger(closes []float64, period int, mult float64) (mid, upper, lower []float64, err error) {
	mid, err = SMA(closes, period)
	if err != nil {
		return nil, nil, nil, err
	}
	sd, err := StdDev(closes, period)
	if err != nil {
		return nil, nil, nil, err
	}

	upper, lower = nans(len(closes)), nans(len(closes))
	for i := range closes {
		if math.IsNaN(mid[i]) {
			continue
		}
		upper[i] = mid[i] + mult*sd[i]
		lower[i] = mid[i] - mult*sd[i]
	}
	return mid, upper, lower, nil
}

// ATR is the Wilder-smoothed average true range. The first value appears at
// index period, once period true ranges exist.
func ATR(candles []market.Candle, period int) ([]float64, error) {
	if err := checkPeriod(len(candles), period, period+1); err != nil {
		return nil, err
	}

	tr := nans(len(candles))
	for i := 1; i < len(candles); i++ {
		tr[i] = trueRange(candles[i], candles[i-1])
	}
	return RMA(tr, period)
}

// trueRange calculates the True Range for a candle given the previous candle
func trueRange(current, previous market.Candle) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
