package indicators

import (
	"sort"
	"time"

	"github.com/rustyeddy/cryptobot/market"
)

// DefaultPivotOrder is the half-width of the look-around window.
const DefaultPivotOrder = 5

// PivotKind says whether a pivot is a swing high or a swing low.
type PivotKind string

const (
	PivotHigh PivotKind = "HIGH"
	PivotLow  PivotKind = "LOW"
)

// Pivot is a local extremum in a candle sequence.
type Pivot struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  PivotKind `json:"kind"`
	Time  time.Time `json:"time"`
}

// PivotDetector finds swing highs and lows. A candle is a HIGH pivot when its
// high is strictly greater than the high of every candle within order
// positions on either side; LOW is symmetric on the low. Candles closer than
// order to either end are never pivots. The detector keeps no state between
// calls.
type PivotDetector struct {
	order int
}

// NewPivotDetector returns a detector with the given order. Non-positive
// values use DefaultPivotOrder.
func NewPivotDetector(order int) *PivotDetector {
	if order <= 0 {
		order = DefaultPivotOrder
	}
	return &PivotDetector{order: order}
}

// Order returns the window half-width.
func (d *PivotDetector) Order() int { return d.order }

// Find returns every pivot, highs and lows merged, sorted by index.
func (d *PivotDetector) Find(candles []market.Candle) []Pivot {
	var out []Pivot
	for i := d.order; i < len(candles)-d.order; i++ {
		if d.isExtreme(candles, i, func(c market.Candle) float64 { return c.High }, greater) {
			out = append(out, Pivot{Index: i, Price: candles[i].High, Kind: PivotHigh, Time: candles[i].Time})
		}
		if d.isExtreme(candles, i, func(c market.Candle) float64 { return c.Low }, less) {
			out = append(out, Pivot{Index: i, Price: candles[i].Low, Kind: PivotLow, Time: candles[i].Time})
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// LastN returns at most n of the newest pivots, oldest first.
func (d *PivotDetector) LastN(candles []market.Candle, n int) []Pivot {
	all := d.Find(candles)
	if n <= 0 {
		return nil
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

func greater(a, b float64) bool { return a > b }
func less(a, b float64) bool    { return a < b }

func (d *PivotDetector) isExtreme(candles []market.Candle, i int, price func(market.Candle) float64, cmp func(a, b float64) bool) bool {
	p := price(candles[i])
	for j := i - d.order; j <= i+d.order; j++ {
		if j == i {
			continue
		}
		if !cmp(p, price(candles[j])) {
			return false
		}
	}
	return true
}
