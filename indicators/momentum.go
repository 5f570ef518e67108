package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/cryptobot/market"
)

// MACD returns the MACD line (fast EMA - slow EMA), its signal EMA and the
// histogram (line - signal). When the line is too short to seed the signal
// EMA, signal and histogram are all NaN.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64, err error) {
	if signal <= 0 {
		return nil, nil, nil, fmt.Errorf("period must be positive, got %d", signal)
	}
	if err := checkPeriod(len(closes), slow, slow); err != nil {
		return nil, nil, nil, err
	}

	f, err := EMA(closes, fast)
	if err != nil {
		return nil, nil, nil, err
	}
	s, err := EMA(closes, slow)
	if err != nil {
		return nil, nil, nil, err
	}

	line = nans(len(closes))
	for i := range closes {
		if !math.IsNaN(f[i]) && !math.IsNaN(s[i]) {
			line[i] = f[i] - s[i]
		}
	}

	sig, err = EMA(line, signal)
	if err != nil {
		sig = nans(len(closes))
	}

	hist = nans(len(closes))
	for i := range closes {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return line, sig, hist, nil
}

// RSI is the relative strength index using Wilder smoothing. A window with no
// losses pins to 100, and a window with no movement at all reads 50.
func RSI(closes []float64, period int) ([]float64, error) {
	if err := checkPeriod(len(closes), period, period+1); err != nil {
		return nil, err
	}

	out := nans(len(closes))
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		ch := closes[i] - closes[i-1]
		if ch > 0 {
			avgGain += ch
		} else {
			avgLoss -= ch
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		ch := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if ch > 0 {
			gain = ch
		} else {
			loss = -ch
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(gain, loss float64) float64 {
	switch {
	case loss == 0 && gain == 0:
		return 50
	case loss == 0:
		return 100
	}
	return 100 - 100/(1+gain/loss)
}

// KDJ is the stochastic oscillator with the J line. RSV over length is
// smoothed into K and then D with factor 1/signal, both seeded at 50.
// J = 3K - 2D and is not bounded to 0..100. A flat window (high == low)
// reads an RSV of 50.
func KDJ(candles []market.Candle, length, signal int) (k, d, j []float64, err error) {
	if err := checkPeriod(len(candles), length, length); err != nil {
		return nil, nil, nil, err
	}
	if signal <= 0 {
		signal = 3
	}

	hh, err := RollingMax(market.Highs(candles), length)
	if err != nil {
		return nil, nil, nil, err
	}
	ll, err := RollingMin(market.Lows(candles), length)
	if err != nil {
		return nil, nil, nil, err
	}

	k, d, j = nans(len(candles)), nans(len(candles)), nans(len(candles))
	alpha := 1.0 / float64(signal)
	pk, pd := 50.0, 50.0
	for i := length - 1; i < len(candles); i++ {
		rsv := 50.0
		if span := hh[i] - ll[i]; span > 0 {
			rsv = 100 * (candles[i].Close - ll[i]) / span
		}
		pk = (1-alpha)*pk + alpha*rsv
		pd = (1-alpha)*pd + alpha*pk
		k[i], d[i], j[i] = pk, pd, 3*pk-2*pd
	}
	return k, d, j, nil
}

// MFI is the money flow index over period. A window with no negative flow
// pins to 100; a window with no flow at all reads 50.
func MFI(candles []market.Candle, period int) ([]float64, error) {
	if err := checkPeriod(len(candles), period, period+1); err != nil {
		return nil, err
	}

	pos := make([]float64, len(candles))
	neg := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		tp := candles[i].TypicalPrice()
		prev := candles[i-1].TypicalPrice()
		flow := tp * candles[i].Volume
		switch {
		case tp > prev:
			pos[i] = flow
		case tp < prev:
			neg[i] = flow
		}
	}

	out := nans(len(candles))
	for i := period; i < len(candles); i++ {
		p, n := 0.0, 0.0
		for w := i - period + 1; w <= i; w++ {
			p += pos[w]
			n += neg[w]
		}
		switch {
		case p == 0 && n == 0:
			out[i] = 50
		case n == 0:
			out[i] = 100
		default:
			out[i] = 100 - 100/(1+p/n)
		}
	}
	return out, nil
}
