package risk

import (
	"fmt"

	"github.com/rustyeddy/cryptobot/market"
)

// Violation codes.
const (
	CodeStopLoss   = "STOP_LOSS"
	CodeTakeProfit = "TAKE_PROFIT"
)

// Journal tags for forced closes.
const (
	TagStopLoss   = "stop-loss"
	TagTakeProfit = "take-profit"
)

type Violation struct {
	Code string
	Tag  string
	Msg  string
}

// Decision is the outcome of a risk check on an open position. When Close is
// set the position must be closed regardless of any strategy signal.
type Decision struct {
	Close      bool
	Violations []Violation
	PnL        PnL
}

func (d *Decision) add(code, tag, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Tag: tag, Msg: msg})
	d.Close = true
}

// Tag returns the journal tag of the first violation, or "".
func (d Decision) Tag() string {
	if len(d.Violations) == 0 {
		return ""
	}
	return d.Violations[0].Tag
}

// Evaluate checks an open position against the policy. The stop-loss is
// checked first; a position past both limits is reported as a stop-loss
// only.
func Evaluate(p Policy, side market.Side, entry, price, qty float64) Decision {
	d := Decision{PnL: Compute(side, entry, price, qty, p.FeeRate)}
	if side == market.Flat || entry <= 0 || qty <= 0 {
		return d
	}

	switch {
	case d.PnL.NetPct <= -p.StopLossPct:
		d.add(CodeStopLoss, TagStopLoss,
			fmt.Sprintf("net %.4f%% breached stop-loss -%.2f%%",
				100*d.PnL.NetPct, 100*p.StopLossPct))
	case d.PnL.NetPct >= p.TakeProfitPct:
		d.add(CodeTakeProfit, TagTakeProfit,
			fmt.Sprintf("net %.4f%% reached take-profit %.2f%%",
				100*d.PnL.NetPct, 100*p.TakeProfitPct))
	}
	return d
}
