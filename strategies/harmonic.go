package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/market"
)

const (
	DefaultTolerance = 0.10

	gartleyB = 0.618
	gartleyD = 0.786

	stopBuffer   = 0.005
	targetRetrac = 0.618
)

var (
	bullishKinds = [5]indicators.PivotKind{indicators.PivotLow, indicators.PivotHigh, indicators.PivotLow, indicators.PivotHigh, indicators.PivotLow}
	bearishKinds = [5]indicators.PivotKind{indicators.PivotHigh, indicators.PivotLow, indicators.PivotHigh, indicators.PivotLow, indicators.PivotHigh}
)

// Harmonic looks for a Gartley pattern in the five most recent pivots, read
// oldest to newest as X, A, B, C, D. AB/XA must be near 0.618 and XD/XA near
// 0.786, each within an absolute tolerance.
type Harmonic struct {
	tolerance float64
}

// NewHarmonic returns a harmonic strategy. A non-positive tolerance uses
// DefaultTolerance.
func NewHarmonic(tolerance float64) Harmonic {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return Harmonic{tolerance: tolerance}
}

func (h Harmonic) Name() string { return "harmonic" }

func (h Harmonic) Tolerance() float64 { return h.tolerance }

func (h Harmonic) Analyze(_ []market.Candle, tc indicators.Context) (Opinion, error) {
	if len(tc.Pivots) < 5 {
		return neutral("insufficient pivots"), nil
	}
	p := tc.Pivots[len(tc.Pivots)-5:]
	x, a, b, d := p[0], p[1], p[2], p[4]

	var kinds [5]indicators.PivotKind
	for i := range p {
		kinds[i] = p[i].Kind
	}

	var sig Signal
	switch kinds {
	case bullishKinds:
		sig = Long
	case bearishKinds:
		sig = Short
	default:
		return neutral("no harmonic pattern"), nil
	}

	xa := math.Abs(x.Price - a.Price)
	if xa == 0 {
		return neutral("no harmonic pattern"), nil
	}
	ratioB := math.Abs(a.Price-b.Price) / xa
	ratioD := math.Abs(x.Price-d.Price) / xa
	if math.Abs(ratioB-gartleyB) > h.tolerance || math.Abs(ratioD-gartleyD) > h.tolerance {
		return neutral("no harmonic pattern"), nil
	}

	leg := math.Abs(a.Price - d.Price)
	var sl, tp float64
	var reason string
	if sig == Long {
		sl = x.Price * (1 - stopBuffer)
		tp = d.Price + leg*targetRetrac
		reason = fmt.Sprintf("bullish Gartley (B=%.2f, D=%.2f)", ratioB, ratioD)
	} else {
		sl = x.Price * (1 + stopBuffer)
		tp = d.Price - leg*targetRetrac
		reason = fmt.Sprintf("bearish Gartley (B=%.2f, D=%.2f)", ratioB, ratioD)
	}
	return Opinion{Signal: sig, Reason: reason, StopLoss: &sl, TakeProfit: &tp}, nil
}
