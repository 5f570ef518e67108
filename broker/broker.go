package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rustyeddy/cryptobot/market"
)

// ErrExecution wraps every failure to place or close an order. The ledger
// leaves its state untouched when it sees one.
var ErrExecution = errors.New("execution failed")

// ErrAlreadyFlat is returned by ClosePosition when the venue holds nothing
// on the symbol, for example after a liquidation.
var ErrAlreadyFlat = errors.New("no open position")

// Gateway is the execution venue. Implementations resolve symbols in the
// BASE-QUOTE form.
type Gateway interface {
	// GetOpenPosition reports the side held on the venue, Flat when none.
	GetOpenPosition(ctx context.Context, symbol string) (market.Side, error)
	// PlaceOrder sends a market order for amount base units.
	PlaceOrder(ctx context.Context, side OrderSide, symbol string, amount float64) (Order, error)
	// ClosePosition closes whatever is open on symbol with a reduce-only
	// order. Closing a flat symbol returns ErrAlreadyFlat.
	ClosePosition(ctx context.Context, symbol string, amount float64) error
	// SetLeverage is called once per symbol at startup.
	SetLeverage(ctx context.Context, symbol string, leverage int) error
}

// PriceUpdater is implemented by gateways that need to be told the latest
// price, such as the dry-run simulator.
type PriceUpdater interface {
	UpdatePrice(symbol string, price float64)
}

type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// OpenSide is the order side that opens a position on side.
func OpenSide(side market.Side) OrderSide {
	if side == market.Short {
		return Sell
	}
	return Buy
}

// CloseSide is the order side that closes a position on side.
func CloseSide(side market.Side) OrderSide {
	if side == market.Short {
		return Buy
	}
	return Sell
}

// OrderRequest is a validated market order.
type OrderRequest struct {
	Symbol     string    `json:"symbol" validate:"required"`
	Side       OrderSide `json:"side" validate:"required,oneof=buy sell"`
	Amount     float64   `json:"amount" validate:"gt=0"`
	ReduceOnly bool      `json:"reduce_only"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func (r OrderRequest) Validate() error {
	validateOnce.Do(func() { validate = validator.New() })
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: invalid order: %v", ErrExecution, err)
	}
	return nil
}

// Order is a filled or accepted order.
type Order struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Side       OrderSide `json:"side"`
	Amount     float64   `json:"amount"`
	Price      float64   `json:"price"`
	ReduceOnly bool      `json:"reduce_only"`
	Time       time.Time `json:"time"`
}
