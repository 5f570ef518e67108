package indicators

import (
	"fmt"
	"math"
)

// Series functions return a slice the same length as their input. Positions
// before the warmup completes hold NaN.

func checkPeriod(n, period, need int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if n < need {
		return fmt.Errorf("not enough values: need %d, got %d", need, n)
	}
	return nil
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA is the simple moving average of values over period.
func SMA(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(len(values), period, period); err != nil {
		return nil, err
	}

	out := nans(len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// StdDev is the rolling population standard deviation over period.
func StdDev(values []float64, period int) ([]float64, error) {
	mean, err := SMA(values, period)
	if err != nil {
		return nil, err
	}

	out := nans(len(values))
	for i := period - 1; i < len(values); i++ {
		ss := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean[i]
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period))
	}
	return out, nil
}

// EMA is the exponential moving average over period, seeded with the simple
// average of the first period valid values. Leading NaNs are skipped, which
// lets EMA run over the output of another indicator.
func EMA(values []float64, period int) ([]float64, error) {
	return smooth(values, period, 2.0/float64(period+1))
}

// RMA is Wilder's moving average (alpha = 1/period), seeded like EMA.
func RMA(values []float64, period int) ([]float64, error) {
	return smooth(values, period, 1.0/float64(period))
}

func smooth(values []float64, period int, alpha float64) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}

	first := firstValid(values)
	if first < 0 || len(values)-first < period {
		return nil, fmt.Errorf("not enough values: need %d, got %d", period, len(values)-max(first, 0))
	}

	out := nans(len(values))
	sum := 0.0
	for i := first; i < first+period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[first+period-1] = prev

	for i := first + period; i < len(values); i++ {
		v := values[i]
		if math.IsNaN(v) {
			out[i] = prev
			continue
		}
		prev = alpha*v + (1-alpha)*prev
		out[i] = prev
	}
	return out, nil
}

func firstValid(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// RollingMax is the highest value in each trailing window of period.
func RollingMax(values []float64, period int) ([]float64, error) {
	return rolling(values, period, math.Max)
}

// RollingMin is the lowest value in each trailing window of period.
func RollingMin(values []float64, period int) ([]float64, error) {
	return rolling(values, period, math.Min)
}

func rolling(values []float64, period int, pick func(a, b float64) float64) ([]float64, error) {
	if err := checkPeriod(len(values), period, period); err != nil {
		return nil, err
	}

	out := nans(len(values))
	for i := period - 1; i < len(values); i++ {
		v := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			v = pick(v, values[j])
		}
		out[i] = v
	}
	return out, nil
}

// Fill replaces NaN and Inf in place: forward-filled from the last finite
// value, then zero-filled where nothing precedes it.
func Fill(values []float64) []float64 {
	last, have := 0.0, false
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if have {
				values[i] = last
			} else {
				values[i] = 0
			}
			continue
		}
		last, have = v, true
	}
	return values
}

// lastOf returns the final element or 0 for an empty series.
func lastOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// prevOf returns the element before the final one, or the final one when the
// series has a single element.
func prevOf(values []float64) float64 {
	if len(values) < 2 {
		return lastOf(values)
	}
	return values[len(values)-2]
}
