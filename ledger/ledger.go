package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/journal"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/pkg/id"
	"github.com/rustyeddy/cryptobot/risk"
	"github.com/rustyeddy/cryptobot/strategies"
)

const (
	// TagReverse marks the close leg of a reversal.
	TagReverse = "reverse"
	// TagAlreadyFlat marks a close the venue had nothing to fill for.
	TagAlreadyFlat = "already-flat"
)

// Position is the ledger's view of one symbol. Entry is positive exactly
// when Side is not Flat.
type Position struct {
	Symbol string      `json:"symbol"`
	Side   market.Side `json:"side"`
	Entry  float64     `json:"entry_price"`
}

// Stats are the process-lifetime counters rebuilt from the journal.
type Stats struct {
	Accumulated float64 `json:"accumulated_pnl"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Trades      int     `json:"trades"`
}

// Kind says what Apply did.
type Kind string

const (
	Hold       Kind = "hold"
	Opened     Kind = "open"
	Reversed   Kind = "reverse"
	StopLoss   Kind = "stop-loss"
	TakeProfit Kind = "take-profit"
)

// Outcome reports one Apply call.
type Outcome struct {
	Symbol  string
	Price   float64
	Amount  float64
	Signal  strategies.Signal
	Kind    Kind
	Before  market.Side
	After   market.Side
	Risk    risk.Decision
	Closed  *risk.PnL
	Entries []journal.Entry
	// PersistErr is set when a journal append failed. The state change
	// stands.
	PersistErr error
}

// Changed reports whether the position moved.
func (o Outcome) Changed() bool { return o.Before != o.After || o.Kind == Reversed }

// Ledger owns per-symbol positions and the realized P&L counters. Every
// transition goes through the gateway first; state only advances once the
// gateway confirms.
type Ledger struct {
	mu          sync.Mutex
	gw          broker.Gateway
	journal     journal.Journal
	policy      risk.Policy
	sizing      Sizing
	startEquity float64
	positions   map[string]*Position
	stats       Stats
	now         func() time.Time
	log         zerolog.Logger
}

func New(gw broker.Gateway, j journal.Journal, policy risk.Policy, sizing Sizing, startEquity float64, log zerolog.Logger) *Ledger {
	return &Ledger{
		gw:          gw,
		journal:     j,
		policy:      policy,
		sizing:      sizing,
		startEquity: startEquity,
		positions:   make(map[string]*Position),
		now:         time.Now,
		log:         log.With().Str("component", "ledger").Logger(),
	}
}

// SetClock replaces the clock used to stamp journal entries.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Restore rebuilds the counters from the journal and adopts open positions
// reported by the gateway. An exchange position is adopted at the price of
// the latest matching OPEN entry; without one it is left FLAT and logged.
func (l *Ledger) Restore(ctx context.Context, symbols []string) error {
	entries, err := l.journal.ReplayAll()
	if err != nil {
		return fmt.Errorf("replay journal: %w", err)
	}

	s := journal.Summarize(entries)

	l.mu.Lock()
	l.stats = Stats{Accumulated: s.RealizedPnL, Wins: s.Wins, Losses: s.Losses, Trades: s.Trades}
	l.mu.Unlock()

	l.log.Info().Int("entries", len(entries)).Float64("accumulated_pnl", s.RealizedPnL).
		Int("wins", s.Wins).Int("losses", s.Losses).Msg("journal replayed")

	for _, sym := range symbols {
		side, err := l.gw.GetOpenPosition(ctx, sym)
		if err != nil {
			l.log.Warn().Err(err).Str("symbol", sym).Msg("read open position")
			continue
		}
		if side == market.Flat {
			continue
		}

		open, ok := journal.LastOpen(entries, sym, journal.OpenAction(side))
		if !ok || open.Price <= 0 {
			l.log.Warn().Str("symbol", sym).Str("side", side.String()).Msg("exchange position has no journal entry, treating as flat")
			continue
		}

		l.mu.Lock()
		l.positions[sym] = &Position{Symbol: sym, Side: side, Entry: open.Price}
		l.mu.Unlock()
		l.log.Info().Str("symbol", sym).Str("side", side.String()).Float64("entry", open.Price).Msg("position restored")
	}
	return nil
}

// Position returns the current position of symbol; unseen symbols are FLAT.
func (l *Ledger) Position(symbol string) Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.positions[symbol]; ok {
		return *p
	}
	return Position{Symbol: symbol, Side: market.Flat}
}

func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Equity is the start equity plus accumulated realized P&L.
func (l *Ledger) Equity() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startEquity + l.stats.Accumulated
}

// Unrealized returns the net P&L of the open position on symbol at price.
func (l *Ledger) Unrealized(symbol string, price float64) risk.PnL {
	p := l.Position(symbol)
	return risk.Compute(p.Side, p.Entry, price, l.sizing.Amount(symbol), l.policy.FeeRate)
}

// Apply runs one decision cycle for symbol at the observed close. Risk
// limits are checked first; a forced close ends the cycle. The returned
// error wraps broker.ErrExecution when the gateway refused a transition, in
// which case the ledger state is whatever the gateway last confirmed.
func (l *Ledger) Apply(ctx context.Context, symbol string, price float64, signal strategies.Signal, reason string) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount := l.sizing.Amount(symbol)
	if u, ok := l.gw.(broker.PriceUpdater); ok {
		u.UpdatePrice(symbol, price)
	}

	pos := l.positionLocked(symbol)
	out := Outcome{Symbol: symbol, Price: price, Amount: amount, Signal: signal, Kind: Hold, Before: pos.Side, After: pos.Side}

	if amount <= 0 {
		return out, fmt.Errorf("%w: no order amount for %s", broker.ErrExecution, symbol)
	}

	if pos.Side != market.Flat {
		out.Risk = risk.Evaluate(l.policy, pos.Side, pos.Entry, price, amount)
		if out.Risk.Close {
			tag := out.Risk.Tag()
			if err := l.closeLocked(ctx, pos, price, amount, tag, &out); err != nil {
				return out, err
			}
			out.Kind = Kind(tag)
			out.After = market.Flat
			return out, nil
		}
	}

	target := signal.Side()
	if target == market.Flat || target == pos.Side {
		return out, nil
	}

	if pos.Side != market.Flat {
		if err := l.closeLocked(ctx, pos, price, amount, TagReverse, &out); err != nil {
			return out, err
		}
		out.After = market.Flat
	}
	if err := l.openLocked(ctx, pos, target, price, amount, reason, &out); err != nil {
		return out, err
	}
	out.After = target
	if out.Before == market.Flat {
		out.Kind = Opened
	} else {
		out.Kind = Reversed
	}
	return out, nil
}

func (l *Ledger) positionLocked(symbol string) *Position {
	p, ok := l.positions[symbol]
	if !ok {
		p = &Position{Symbol: symbol, Side: market.Flat}
		l.positions[symbol] = p
	}
	return p
}

func (l *Ledger) openLocked(ctx context.Context, pos *Position, side market.Side, price, amount float64, tag string, out *Outcome) error {
	if _, err := l.gw.PlaceOrder(ctx, broker.OpenSide(side), pos.Symbol, amount); err != nil {
		return execErr(fmt.Errorf("open %s %s: %w", side, pos.Symbol, err))
	}

	pos.Side, pos.Entry = side, price
	l.appendLocked(journal.Entry{
		Symbol: pos.Symbol,
		Action: journal.OpenAction(side),
		Price:  price,
		Amount: amount,
		Tag:    tag,
		Equity: l.startEquity + l.stats.Accumulated,
	}, out)

	l.log.Info().Str("symbol", pos.Symbol).Str("side", side.String()).Float64("price", price).Float64("amount", amount).Msg("position opened")
	return nil
}

func (l *Ledger) closeLocked(ctx context.Context, pos *Position, price, amount float64, tag string, out *Outcome) error {
	if err := l.gw.ClosePosition(ctx, pos.Symbol, amount); err != nil {
		if errors.Is(err, broker.ErrAlreadyFlat) {
			l.flatLocked(pos, price, amount, tag, out)
			return nil
		}
		return execErr(fmt.Errorf("close %s %s: %w", pos.Side, pos.Symbol, err))
	}

	pnl := risk.Compute(pos.Side, pos.Entry, price, amount, l.policy.FeeRate)
	side := pos.Side
	pos.Side, pos.Entry = market.Flat, 0

	l.stats.Accumulated += pnl.Net
	l.stats.Trades++
	switch {
	case pnl.Net > 0:
		l.stats.Wins++
	case pnl.Net < 0:
		l.stats.Losses++
	}
	out.Closed = &pnl

	l.appendLocked(journal.Entry{
		Symbol:      pos.Symbol,
		Action:      journal.CloseAction(side),
		Price:       price,
		Amount:      amount,
		Tag:         tag,
		RealizedPnL: pnl.Net,
		Equity:      l.startEquity + l.stats.Accumulated,
	}, out)

	l.log.Info().Str("symbol", pos.Symbol).Str("side", side.String()).Str("tag", tag).
		Float64("price", price).Float64("net", pnl.Net).Float64("net_pct", pnl.NetPct).
		Float64("accumulated_pnl", l.stats.Accumulated).Msg("position closed")
	return nil
}

// flatLocked records a position the venue already closed on its own. No
// fill happened, so nothing is realized.
func (l *Ledger) flatLocked(pos *Position, price, amount float64, reason string, out *Outcome) {
	side := pos.Side
	pos.Side, pos.Entry = market.Flat, 0
	l.stats.Trades++

	l.appendLocked(journal.Entry{
		Symbol: pos.Symbol,
		Action: journal.CloseAction(side),
		Price:  price,
		Amount: amount,
		Tag:    TagAlreadyFlat,
		Equity: l.startEquity + l.stats.Accumulated,
	}, out)

	l.log.Warn().Str("symbol", pos.Symbol).Str("side", side.String()).Str("reason", reason).
		Float64("price", price).Msg("venue position already closed, nothing realized")
}

func (l *Ledger) appendLocked(e journal.Entry, out *Outcome) {
	e.Time = l.now()
	e.ID = id.NewAt(e.Time)
	out.Entries = append(out.Entries, e)

	if err := l.journal.Append(e); err != nil {
		if !errors.Is(err, journal.ErrPersistence) {
			err = fmt.Errorf("%w: %v", journal.ErrPersistence, err)
		}
		out.PersistErr = errors.Join(out.PersistErr, err)
		l.log.Error().Err(err).Str("symbol", e.Symbol).Str("action", string(e.Action)).Msg("journal append failed")
	}
}

func execErr(err error) error {
	if errors.Is(err, broker.ErrExecution) {
		return err
	}
	return fmt.Errorf("%w: %v", broker.ErrExecution, err)
}
