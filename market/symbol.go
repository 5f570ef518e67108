package market

import (
	"fmt"
	"strings"
)

// Symbol is a perpetual swap pair such as BTC-USDT.
type Symbol struct {
	Base  string
	Quote string
}

// ParseSymbol accepts "BTC-USDT", "BTC/USDT" and "BTC_USDT".
func ParseSymbol(s string) (Symbol, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, sep := range []string{"-", "/", "_"} {
		if base, quote, ok := strings.Cut(s, sep); ok {
			if base == "" || quote == "" {
				break
			}
			return Symbol{Base: base, Quote: quote}, nil
		}
	}
	return Symbol{}, fmt.Errorf("bad symbol %q: want BASE-QUOTE", s)
}

// String returns the exchange form, BASE-QUOTE.
func (s Symbol) String() string {
	return s.Base + "-" + s.Quote
}

// Pair returns the slash form, BASE/QUOTE.
func (s Symbol) Pair() string {
	return s.Base + "/" + s.Quote
}

// Pair converts "BTC-USDT" to "BTC/USDT". Unparseable input is returned as is.
func Pair(symbol string) string {
	s, err := ParseSymbol(symbol)
	if err != nil {
		return symbol
	}
	return s.Pair()
}
