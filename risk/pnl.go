package risk

import "github.com/rustyeddy/cryptobot/market"

// PnL is the result of closing a position at a given price.
type PnL struct {
	Gross  float64 `json:"gross"`
	Fee    float64 `json:"fee"`
	Net    float64 `json:"net"`
	NetPct float64 `json:"net_pct"`
}

// Compute returns the P&L of a side opened at entry and closed at price
// for qty units. The fee is charged on both legs. A flat side, or a
// non-positive entry or quantity, yields the zero PnL.
func Compute(side market.Side, entry, price, qty, feeRate float64) PnL {
	if side == market.Flat || entry <= 0 || qty <= 0 {
		return PnL{}
	}

	var gross float64
	if side == market.Long {
		gross = (price - entry) * qty
	} else {
		gross = (entry - price) * qty
	}
	fee := (entry + price) * qty * feeRate
	net := gross - fee

	return PnL{
		Gross:  gross,
		Fee:    fee,
		Net:    net,
		NetPct: net / (entry * qty),
	}
}
