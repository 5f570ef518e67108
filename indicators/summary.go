package indicators

import (
	"fmt"
	"strings"
)

// Summary renders the context as a plain-text block for reports and prompts.
func Summary(c Context) string {
	if !c.Valid() {
		return "no indicator data\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] close %.2f at %s\n", c.Symbol, c.Close, c.Time.UTC().Format("2006-01-02 15:04"))

	b.WriteString("Trend\n")
	fmt.Fprintf(&b, "  MA: %s | MA%d=%.2f MA%d=%.2f\n", c.Trend, c.FastPeriod, c.MAFast, c.SlowPeriod, c.MASlow)
	fmt.Fprintf(&b, "  MACD: line=%.2f signal=%.2f hist=%.4f\n", c.MACD, c.MACDSignal, c.MACDHist)

	b.WriteString("Structure\n")
	if len(c.Pivots) < 3 {
		b.WriteString("  not enough pivots\n")
	} else {
		for _, p := range c.Pivots {
			fmt.Fprintf(&b, "  %s @ %.2f (%s)\n", p.Kind, p.Price, p.Time.UTC().Format("15:04"))
		}
	}

	b.WriteString("Volume\n")
	vwap := "below VWAP"
	if c.AboveVWAP() {
		vwap = "above VWAP"
	}
	obv := "falling"
	if c.OBVRising() {
		obv = "rising"
	}
	fmt.Fprintf(&b, "  VWAP: %.2f | %s\n", c.VWAP, vwap)
	fmt.Fprintf(&b, "  OBV: %.0f | %s\n", c.OBV, obv)
	fmt.Fprintf(&b, "  MFI: %.1f | %s\n", c.MFI, c.MFIStatus())

	b.WriteString("Momentum\n")
	fmt.Fprintf(&b, "  RSI(%d): %.1f\n", c.RSIPeriod, c.RSI)
	fmt.Fprintf(&b, "  KDJ: K=%.1f D=%.1f J=%.1f | %s", c.K, c.D, c.J, c.KDJStatus())
	if x := c.KDJCross(); x != "" {
		fmt.Fprintf(&b, " | %s cross", x)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Bollinger: %s (upper %.2f / lower %.2f)\n", c.BandPosition(), c.BBUpper, c.BBLower)

	b.WriteString("Volatility\n")
	fmt.Fprintf(&b, "  ATR(%d): %.4f\n", c.ATRPeriod, c.ATR)
	fmt.Fprintf(&b, "  long stop %.2f | short stop %.2f | risk %.2f%%\n", c.ATRStopLong, c.ATRStopShort, c.RiskPct)
	return b.String()
}
