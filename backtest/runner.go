package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/bot"
	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/sim"
	"github.com/rustyeddy/cryptobot/strategies"
)

// Options controls a replay.
type Options struct {
	Symbol       string
	Timeframe    string
	Window       int // candles per decision, the live candle limit
	StartBalance float64
	Policy       risk.Policy
	Sizing       ledger.Sizing
	Params       indicators.Params
	Strategies   []string
	StrategyOpts strategies.Options
}

// Runner replays a feed through the same decision pipeline the live bot
// uses, against the dry-run gateway and an in-memory journal.
type Runner struct {
	Feed    CandleFeed
	Options Options
	Log     zerolog.Logger
}

// Run executes the backtest loop:
//  1. read next candle into the window
//  2. once the window is full, evaluate it at the window's last close
//
// Positions still open at the end are reported, not closed.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	o := r.Options
	if o.Symbol == "" {
		return Result{}, fmt.Errorf("backtest: Symbol is required")
	}
	if len(o.Strategies) == 0 {
		return Result{}, fmt.Errorf("backtest: at least one strategy is required")
	}
	if o.StartBalance <= 0 {
		return Result{}, fmt.Errorf("backtest: StartBalance must be positive")
	}
	if err := o.Policy.Validate(); err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}
	defer r.Feed.Close()

	strats, err := strategies.Build(o.Strategies, o.StrategyOpts)
	if err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}

	engine := indicators.NewEngine(o.Params)
	window := o.Window
	if window < engine.MinCandles() {
		window = engine.MinCandles()
	}

	var clock time.Time
	now := func() time.Time { return clock }

	gw := sim.NewEngine(o.StartBalance, o.Policy.FeeRate, r.Log)
	gw.SetClock(now)
	j := journal.NewMemory()
	led := ledger.New(gw, j, o.Policy, o.Sizing, o.StartBalance, r.Log)
	led.SetClock(now)

	cfg := bot.TraderConfig{Symbols: []string{o.Symbol}, Timeframe: o.Timeframe, CandleLimit: window}
	trader := bot.NewTrader(cfg, nil, gw, engine, strategies.NewAggregator(strats, r.Log), led, nil, r.Log)

	res := Result{Symbol: o.Symbol, Strategies: o.Strategies, StartBalance: o.StartBalance}
	buf := make([]market.Candle, 0, window)
	var last market.Candle

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		c, ok, err := r.Feed.Next()
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}
		if !last.Time.IsZero() && !c.Time.After(last.Time) {
			continue
		}
		last = c

		res.Candles++
		if res.Start.IsZero() {
			res.Start = c.Time
		}
		res.End = c.Time

		if len(buf) == window {
			copy(buf, buf[1:])
			buf = buf[:window-1]
		}
		buf = append(buf, c)
		if len(buf) < window {
			continue
		}

		clock = c.Time
		out := trader.Evaluate(ctx, o.Symbol, buf)
		res.Cycles++
		if out.Err != nil {
			res.Errors++
		}
	}

	entries, err := j.ReplayAll()
	if err != nil {
		return res, err
	}
	res.Entries = entries

	s := journal.Summarize(entries)
	res.Trades, res.Wins, res.Losses, res.WinRate = s.Trades, s.Wins, s.Losses, s.WinRate
	res.NetPnL = s.RealizedPnL
	res.EndEquity = led.Equity()

	pos := led.Position(o.Symbol)
	res.OpenSide = pos.Side
	if pos.Side != market.Flat {
		res.OpenEntry = pos.Entry
		res.Unrealized = led.Unrealized(o.Symbol, last.Close).Net
	}
	return res, nil
}
