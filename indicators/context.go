package indicators

import "time"

// Trend is the two-state classification derived from the moving averages.
type Trend int

const (
	// Bearish is also the tie-break: fast == slow reads Bearish.
	Bearish Trend = iota
	Bullish
)

// Signal returns LONG for Bullish and SHORT for Bearish.
func (t Trend) Signal() string {
	if t == Bullish {
		return "LONG"
	}
	return "SHORT"
}

func (t Trend) String() string {
	if t == Bullish {
		return "bullish"
	}
	return "bearish"
}

// Context is a technical snapshot of one symbol, taken from the last candle
// of a sequence. The zero value is the empty context: Valid reports false
// and no field may be used for a trading decision.
type Context struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`

	FastPeriod int     `json:"fast_period"`
	SlowPeriod int     `json:"slow_period"`
	MAFast     float64 `json:"ma_fast"`
	MASlow     float64 `json:"ma_slow"`
	Trend      Trend   `json:"trend"`

	BBUpper  float64 `json:"bb_upper"`
	BBMiddle float64 `json:"bb_middle"`
	BBLower  float64 `json:"bb_lower"`

	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`

	RSIPeriod int     `json:"rsi_period"`
	RSI       float64 `json:"rsi"`
	K         float64 `json:"kdj_k"`
	D         float64 `json:"kdj_d"`
	J         float64 `json:"kdj_j"`
	PrevK     float64 `json:"prev_kdj_k"`
	PrevD     float64 `json:"prev_kdj_d"`

	ATRPeriod    int     `json:"atr_period"`
	ATR          float64 `json:"atr"`
	ATRStopLong  float64 `json:"atr_stop_long"`
	ATRStopShort float64 `json:"atr_stop_short"`
	RiskPct      float64 `json:"risk_pct"`

	OBV     float64 `json:"obv"`
	PrevOBV float64 `json:"prev_obv"`
	MFI     float64 `json:"mfi"`
	VWAP    float64 `json:"vwap"`

	Pivots []Pivot `json:"pivots"`
}

// Valid reports whether the context was computed from enough data.
func (c Context) Valid() bool {
	return c.Close > 0 && c.SlowPeriod > 0
}

// BandPosition describes where the close sits against the Bollinger bands.
func (c Context) BandPosition() string {
	switch {
	case c.Close >= c.BBUpper:
		return "at upper band"
	case c.Close <= c.BBLower:
		return "at lower band"
	default:
		return "inside bands"
	}
}

// KDJStatus flags J above 100 or below 0.
func (c Context) KDJStatus() string {
	switch {
	case c.J > 100:
		return "J overbought (>100)"
	case c.J < 0:
		return "J oversold (<0)"
	default:
		return "normal"
	}
}

// KDJCross reports a K/D crossover on the last candle: "golden" when K
// crossed above D, "dead" when it crossed below, "" otherwise.
func (c Context) KDJCross() string {
	switch {
	case c.PrevK <= c.PrevD && c.K > c.D:
		return "golden"
	case c.PrevK >= c.PrevD && c.K < c.D:
		return "dead"
	default:
		return ""
	}
}

// MFIStatus flags money flow above 80 or below 20.
func (c Context) MFIStatus() string {
	switch {
	case c.MFI > 80:
		return "overbought (>80)"
	case c.MFI < 20:
		return "oversold (<20)"
	default:
		return "neutral"
	}
}

// AboveVWAP reports whether the close is above VWAP.
func (c Context) AboveVWAP() bool { return c.Close > c.VWAP }

// OBVRising reports whether OBV rose on the last candle.
func (c Context) OBVRising() bool { return c.OBV > c.PrevOBV }
