package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/market"
	"github.com/rustyeddy/cryptobot/pkg/id"
	"github.com/rustyeddy/cryptobot/risk"
)

// Position is a simulated open position.
type Position struct {
	Symbol   string
	Side     market.Side
	Entry    float64
	Amount   float64
	OpenedAt time.Time
}

// Engine is a dry-run execution gateway. It fills every valid order at the
// last price it was given and keeps positions in memory.
type Engine struct {
	mu        sync.Mutex
	positions map[string]*Position
	prices    map[string]float64
	leverage  map[string]int
	fills     []broker.Order
	balance   float64
	feeRate   float64
	now       func() time.Time
	log       zerolog.Logger
}

func NewEngine(startBalance, feeRate float64, log zerolog.Logger) *Engine {
	return &Engine{
		positions: make(map[string]*Position),
		prices:    make(map[string]float64),
		leverage:  make(map[string]int),
		balance:   startBalance,
		feeRate:   feeRate,
		now:       time.Now,
		log:       log.With().Str("component", "sim").Logger(),
	}
}

// SetClock replaces the wall clock, used by backtests to stamp fills with
// candle times.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// UpdatePrice records the latest price for symbol.
func (e *Engine) UpdatePrice(symbol string, price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prices[symbol] = price
}

func (e *Engine) GetOpenPosition(_ context.Context, symbol string) (market.Side, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.positions[symbol]; ok {
		return p.Side, nil
	}
	return market.Flat, nil
}

func (e *Engine) PlaceOrder(_ context.Context, side broker.OrderSide, symbol string, amount float64) (broker.Order, error) {
	req := broker.OrderRequest{Symbol: symbol, Side: side, Amount: amount}
	if err := req.Validate(); err != nil {
		return broker.Order{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	price, ok := e.prices[symbol]
	if !ok || price <= 0 {
		return broker.Order{}, fmt.Errorf("%w: no price for %s", broker.ErrExecution, symbol)
	}

	want := market.Long
	if side == broker.Sell {
		want = market.Short
	}

	if p, ok := e.positions[symbol]; ok && p.Side != want {
		// An opposite order reduces the open position first.
		e.closeLocked(p, price)
	}
	if p, ok := e.positions[symbol]; ok {
		p.Entry = (p.Entry*p.Amount + price*amount) / (p.Amount + amount)
		p.Amount += amount
	} else {
		e.positions[symbol] = &Position{Symbol: symbol, Side: want, Entry: price, Amount: amount, OpenedAt: e.now()}
	}

	o := e.fillLocked(symbol, side, amount, price, false)
	e.log.Info().Str("symbol", symbol).Str("side", string(side)).Float64("amount", amount).Float64("price", price).Str("order_id", o.ID).Msg("simulated fill")
	return o, nil
}

func (e *Engine) ClosePosition(_ context.Context, symbol string, amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.positions[symbol]
	if !ok {
		e.log.Debug().Str("symbol", symbol).Msg("close on flat symbol")
		return fmt.Errorf("%w: %s", broker.ErrAlreadyFlat, symbol)
	}
	price, ok := e.prices[symbol]
	if !ok || price <= 0 {
		return fmt.Errorf("%w: no price for %s", broker.ErrExecution, symbol)
	}

	if amount <= 0 || amount > p.Amount {
		amount = p.Amount
	}
	o := e.fillLocked(symbol, broker.CloseSide(p.Side), amount, price, true)

	if amount < p.Amount {
		e.realizeLocked(p.Side, p.Entry, price, amount)
		p.Amount -= amount
	} else {
		e.closeLocked(p, price)
	}
	e.log.Info().Str("symbol", symbol).Float64("price", price).Str("order_id", o.ID).Msg("simulated close")
	return nil
}

func (e *Engine) SetLeverage(_ context.Context, symbol string, leverage int) error {
	if leverage <= 0 {
		return fmt.Errorf("%w: leverage must be positive, got %d", broker.ErrExecution, leverage)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.leverage[symbol] = leverage
	return nil
}

// Leverage returns the leverage set for symbol, 0 if none.
func (e *Engine) Leverage(symbol string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leverage[symbol]
}

// Position returns a copy of the open position on symbol.
func (e *Engine) Position(symbol string) (Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// Fills returns every simulated order, oldest first.
func (e *Engine) Fills() []broker.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]broker.Order(nil), e.fills...)
}

// Balance is the start balance plus realized net P&L.
func (e *Engine) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// Equity is the balance plus the unrealized net P&L at last prices.
func (e *Engine) Equity() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	eq := e.balance
	for sym, p := range e.positions {
		eq += risk.Compute(p.Side, p.Entry, e.prices[sym], p.Amount, e.feeRate).Net
	}
	return eq
}

func (e *Engine) fillLocked(symbol string, side broker.OrderSide, amount, price float64, reduceOnly bool) broker.Order {
	now := e.now()
	o := broker.Order{
		ID:         id.NewAt(now),
		Symbol:     symbol,
		Side:       side,
		Amount:     amount,
		Price:      price,
		ReduceOnly: reduceOnly,
		Time:       now,
	}
	e.fills = append(e.fills, o)
	return o
}

func (e *Engine) closeLocked(p *Position, price float64) {
	e.realizeLocked(p.Side, p.Entry, price, p.Amount)
	delete(e.positions, p.Symbol)
}

func (e *Engine) realizeLocked(side market.Side, entry, price, amount float64) {
	e.balance += risk.Compute(side, entry, price, amount, e.feeRate).Net
}
