package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/ledger"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/notify"
	"github.com/rustyeddy/cryptobot/strategies"
)

// TraderConfig selects what a Trader scans.
type TraderConfig struct {
	Symbols     []string
	Timeframe   string
	CandleLimit int
	Leverage    int
}

// Result is the outcome of one symbol in a cycle. Err is set when the
// symbol was skipped or a transition failed.
type Result struct {
	Symbol   string
	Context  indicators.Context
	Decision strategies.Decision
	Outcome  ledger.Outcome
	Err      error
}

// Trader runs the fetch, indicator, vote and ledger pipeline for each
// symbol in turn.
type Trader struct {
	cfg    TraderConfig
	src    market.Source
	gw     broker.Gateway
	engine *indicators.Engine
	agg    *strategies.Aggregator
	ledger *ledger.Ledger
	notify *notify.Dispatcher
	log    zerolog.Logger
}

// NewTrader wires a Trader. n may be nil.
func NewTrader(cfg TraderConfig, src market.Source, gw broker.Gateway, engine *indicators.Engine,
	agg *strategies.Aggregator, led *ledger.Ledger, n *notify.Dispatcher, log zerolog.Logger) *Trader {
	if cfg.CandleLimit < engine.MinCandles() {
		cfg.CandleLimit = engine.MinCandles()
	}
	return &Trader{
		cfg:    cfg,
		src:    src,
		gw:     gw,
		engine: engine,
		agg:    agg,
		ledger: led,
		notify: n,
		log:    log.With().Str("component", "trader").Logger(),
	}
}

func (t *Trader) Symbols() []string { return t.cfg.Symbols }

func (t *Trader) Ledger() *ledger.Ledger { return t.ledger }

// Setup sets leverage for every symbol and restores the ledger from the
// journal and the gateway. Leverage failures are logged only.
func (t *Trader) Setup(ctx context.Context) error {
	names := make([]string, 0, len(t.agg.Strategies()))
	for _, s := range t.agg.Strategies() {
		names = append(names, s.Name())
	}
	t.log.Info().Strs("strategies", names).Strs("symbols", t.cfg.Symbols).Msg("trader setup")

	if t.cfg.Leverage > 0 {
		for _, s := range t.cfg.Symbols {
			if err := t.gw.SetLeverage(ctx, s, t.cfg.Leverage); err != nil {
				t.log.Warn().Err(err).Str("symbol", s).Int("leverage", t.cfg.Leverage).Msg("set leverage failed")
			}
		}
	}
	return t.ledger.Restore(ctx, t.cfg.Symbols)
}

// RunCycle scans every symbol once. A failing symbol never stops the
// others; the returned error joins the per-symbol failures.
func (t *Trader) RunCycle(ctx context.Context) error {
	t.log.Debug().Int("symbols", len(t.cfg.Symbols)).Str("timeframe", t.cfg.Timeframe).Msg("cycle start")

	var errs []error
	for _, symbol := range t.cfg.Symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r := t.Scan(ctx, symbol)
		if r.Err != nil && !errors.Is(r.Err, market.ErrDataUnavailable) && !errors.Is(r.Err, indicators.ErrInsufficientData) {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Scan fetches candles for symbol and evaluates them.
func (t *Trader) Scan(ctx context.Context, symbol string) Result {
	candles, err := market.Fetch(ctx, t.src, symbol, t.cfg.Timeframe, t.cfg.CandleLimit)
	if err != nil {
		t.log.Warn().Err(err).Str("symbol", symbol).Msg("skipping symbol")
		return Result{Symbol: symbol, Err: err}
	}
	return t.Evaluate(ctx, symbol, candles)
}

// Evaluate runs one decision on already fetched candles.
func (t *Trader) Evaluate(ctx context.Context, symbol string, candles []market.Candle) Result {
	r := Result{Symbol: symbol}

	tc, err := t.engine.Compute(symbol, candles)
	if err != nil {
		t.log.Warn().Err(err).Str("symbol", symbol).Int("candles", len(candles)).Msg("skipping symbol")
		r.Err = err
		return r
	}
	r.Context = tc

	r.Decision = t.agg.Combine(candles, tc)
	before := t.ledger.Position(symbol)

	t.log.Info().
		Str("symbol", symbol).
		Float64("close", tc.Close).
		Str("signal", string(r.Decision.Signal)).
		Str("position", before.Side.String()).
		Float64("rsi", tc.RSI).
		Msg("scan")
	for _, line := range r.Decision.Diagnostics() {
		t.log.Debug().Str("symbol", symbol).Msg(line)
	}

	out, err := t.ledger.Apply(ctx, symbol, tc.Close, r.Decision.Signal, r.Decision.Reason)
	r.Outcome = out
	if err != nil {
		t.log.Error().Err(err).Str("symbol", symbol).Msg("transition failed")
		r.Err = fmt.Errorf("%s: %w", symbol, err)
	}

	t.publish(ctx, tc, r.Decision, out)
	return r
}

// publish emits one event per journal entry written this cycle.
func (t *Trader) publish(ctx context.Context, tc indicators.Context, d strategies.Decision, out ledger.Outcome) {
	if t.notify == nil {
		return
	}
	for _, e := range out.Entries {
		reason := d.Reason
		if e.Action.IsClose() {
			reason = e.Tag
		}
		t.notify.Dispatch(ctx, notify.Event{
			Symbol:  e.Symbol,
			Action:  e.Action,
			Price:   e.Price,
			Amount:  e.Amount,
			Tag:     e.Tag,
			Reason:  reason,
			PnL:     e.RealizedPnL,
			Context: tc,
			Time:    e.Time,
		})
	}
}
