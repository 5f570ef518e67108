package ledger

import (
	"strings"

	"github.com/rustyeddy/cryptobot/market"
)

// Sizing resolves the order amount for a symbol. PerSymbol may be keyed by
// the full symbol ("BTC-USDT", "BTC/USDT") or by the base asset ("BTC").
type Sizing struct {
	Default   float64
	PerSymbol map[string]float64
}

func (s Sizing) Amount(symbol string) float64 {
	if a, ok := s.lookup(symbol); ok {
		return a
	}
	if sym, err := market.ParseSymbol(symbol); err == nil {
		for _, k := range []string{sym.String(), sym.Pair(), sym.Base} {
			if a, ok := s.lookup(k); ok {
				return a
			}
		}
	}
	return s.Default
}

func (s Sizing) lookup(key string) (float64, bool) {
	if a, ok := s.PerSymbol[key]; ok && a > 0 {
		return a, true
	}
	for k, a := range s.PerSymbol {
		if a > 0 && strings.EqualFold(k, key) {
			return a, true
		}
	}
	return 0, false
}
