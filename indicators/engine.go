package indicators

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/cryptobot/market"
)

// ErrInsufficientData is returned, with an empty Context, when candles are too
// few or malformed to compute indicators.
var ErrInsufficientData = errors.New("insufficient candle data")

// MinLookback is the floor for the number of candles Compute requires.
const MinLookback = 30

// Params are the fixed engine parameters.
type Params struct {
	FastMA     int     `json:"fast_ma" yaml:"fast_ma"`
	SlowMA     int     `json:"slow_ma" yaml:"slow_ma"`
	BBLength   int     `json:"bb_length" yaml:"bb_length"`
	BBStd      float64 `json:"bb_std" yaml:"bb_std"`
	MACDFast   int     `json:"macd_fast" yaml:"macd_fast"`
	MACDSlow   int     `json:"macd_slow" yaml:"macd_slow"`
	MACDSignal int     `json:"macd_signal" yaml:"macd_signal"`
	RSI        int     `json:"rsi" yaml:"rsi"`
	KDJLength  int     `json:"kdj_length" yaml:"kdj_length"`
	KDJSignal  int     `json:"kdj_signal" yaml:"kdj_signal"`
	ATR        int     `json:"atr" yaml:"atr"`
	MFI        int     `json:"mfi" yaml:"mfi"`
	PivotOrder int     `json:"pivot_order" yaml:"pivot_order"`
	Pivots     int     `json:"pivots" yaml:"pivots"`
}

func DefaultParams() Params {
	return Params{
		FastMA:     7,
		SlowMA:     25,
		BBLength:   20,
		BBStd:      2.0,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		RSI:        14,
		KDJLength:  9,
		KDJSignal:  3,
		ATR:        14,
		MFI:        14,
		PivotOrder: DefaultPivotOrder,
		Pivots:     5,
	}
}

// withDefaults fills zero fields from DefaultParams.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	set := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	set(&p.FastMA, d.FastMA)
	set(&p.SlowMA, d.SlowMA)
	set(&p.BBLength, d.BBLength)
	set(&p.MACDFast, d.MACDFast)
	set(&p.MACDSlow, d.MACDSlow)
	set(&p.MACDSignal, d.MACDSignal)
	set(&p.RSI, d.RSI)
	set(&p.KDJLength, d.KDJLength)
	set(&p.KDJSignal, d.KDJSignal)
	set(&p.ATR, d.ATR)
	set(&p.MFI, d.MFI)
	set(&p.PivotOrder, d.PivotOrder)
	set(&p.Pivots, d.Pivots)
	if p.BBStd <= 0 {
		p.BBStd = d.BBStd
	}
	return p
}

// Engine turns candle sequences into Contexts. It is safe for concurrent use;
// Compute is a pure function of its input.
type Engine struct {
	params Params
	pivots *PivotDetector
}

func NewEngine(p Params) *Engine {
	p = p.withDefaults()
	return &Engine{
		params: p,
		pivots: NewPivotDetector(p.PivotOrder),
	}
}

func (e *Engine) Params() Params { return e.params }

// MinCandles is max(slow MA, MACD slow, MinLookback), widened when another
// window would otherwise have no value at all.
func (e *Engine) MinCandles() int {
	p := e.params
	n := max(p.SlowMA, p.MACDSlow, MinLookback)
	return max(n, p.BBLength, p.RSI+1, p.ATR+1, p.MFI+1, p.KDJLength)
}

// Compute builds the Context for the last candle of candles. Fewer than
// MinCandles candles, or candles with a non-finite or non-positive close,
// produce an empty Context and ErrInsufficientData.
func (e *Engine) Compute(symbol string, candles []market.Candle) (Context, error) {
	if n := e.MinCandles(); len(candles) < n {
		return Context{}, fmt.Errorf("%w: %s has %d candles, need %d", ErrInsufficientData, symbol, len(candles), n)
	}
	for i, c := range candles {
		if !finite(c.Close) || c.Close <= 0 {
			return Context{}, fmt.Errorf("%w: %s candle %d has close %v", ErrInsufficientData, symbol, i, c.Close)
		}
	}

	ctx, err := e.compute(symbol, candles)
	if err != nil {
		return Context{}, fmt.Errorf("%w: %s: %v", ErrInsufficientData, symbol, err)
	}
	return ctx, nil
}

func (e *Engine) compute(symbol string, candles []market.Candle) (Context, error) {
	p := e.params
	closes := market.Closes(candles)

	fast, err := SMA(closes, p.FastMA)
	if err != nil {
		return Context{}, fmt.Errorf("fast ma: %w", err)
	}
	slow, err := SMA(closes, p.SlowMA)
	if err != nil {
		return Context{}, fmt.Errorf("slow ma: %w", err)
	}
	bbMid, bbUp, bbLow, err := Bollinger(closes, p.BBLength, p.BBStd)
	if err != nil {
		return Context{}, fmt.Errorf("bollinger: %w", err)
	}
	macd, macdSig, macdHist, err := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	if err != nil {
		return Context{}, fmt.Errorf("macd: %w", err)
	}
	rsi, err := RSI(closes, p.RSI)
	if err != nil {
		return Context{}, fmt.Errorf("rsi: %w", err)
	}
	k, d, j, err := KDJ(candles, p.KDJLength, p.KDJSignal)
	if err != nil {
		return Context{}, fmt.Errorf("kdj: %w", err)
	}
	atr, err := ATR(candles, p.ATR)
	if err != nil {
		return Context{}, fmt.Errorf("atr: %w", err)
	}
	mfi, err := MFI(candles, p.MFI)
	if err != nil {
		return Context{}, fmt.Errorf("mfi: %w", err)
	}
	obv := OBV(candles)
	vwap := VWAP(candles)

	for _, s := range [][]float64{fast, slow, bbMid, bbUp, bbLow, macd, macdSig, macdHist, rsi, k, d, j, atr, mfi, obv, vwap} {
		Fill(s)
	}

	last := candles[len(candles)-1]
	tc := Context{
		Symbol:     symbol,
		Time:       last.Time,
		Close:      last.Close,
		FastPeriod: p.FastMA,
		SlowPeriod: p.SlowMA,
		MAFast:     lastOf(fast),
		MASlow:     lastOf(slow),
		BBUpper:    lastOf(bbUp),
		BBMiddle:   lastOf(bbMid),
		BBLower:    lastOf(bbLow),
		MACD:       lastOf(macd),
		MACDSignal: lastOf(macdSig),
		MACDHist:   lastOf(macdHist),
		RSIPeriod:  p.RSI,
		RSI:        lastOf(rsi),
		K:          lastOf(k),
		D:          lastOf(d),
		J:          lastOf(j),
		PrevK:      prevOf(k),
		PrevD:      prevOf(d),
		ATRPeriod:  p.ATR,
		ATR:        lastOf(atr),
		OBV:        lastOf(obv),
		PrevOBV:    prevOf(obv),
		MFI:        lastOf(mfi),
		VWAP:       lastOf(vwap),
		Pivots:     e.pivots.LastN(candles, p.Pivots),
	}

	if tc.MAFast > tc.MASlow {
		tc.Trend = Bullish
	} else {
		tc.Trend = Bearish
	}

	if tc.ATR <= 0 {
		tc.ATR = tc.Close * 0.01
	}
	if tc.VWAP == 0 {
		tc.VWAP = tc.Close
	}

	stop := 2 * tc.ATR
	tc.ATRStopLong = tc.Close - stop
	tc.ATRStopShort = tc.Close + stop
	tc.RiskPct = stop / tc.Close * 100

	return tc, nil
}
