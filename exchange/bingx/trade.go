package bingx

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/broker"
	"github.com/rustyeddy/cryptobot/market"
)

// Position is one open swap position.
type Position struct {
	Symbol       string
	Side         market.Side
	Amount       decimal.Decimal
	AvgPrice     decimal.Decimal
	Leverage     int
	UnrealizedPL decimal.Decimal
}

type positionPayload struct {
	Symbol           string          `json:"symbol"`
	PositionSide     string          `json:"positionSide"`
	PositionAmt      decimal.Decimal `json:"positionAmt"`
	AvgPrice         decimal.Decimal `json:"avgPrice"`
	Leverage         int             `json:"leverage"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
}

func (p positionPayload) position() Position {
	side := market.Flat
	switch strings.ToUpper(p.PositionSide) {
	case "LONG":
		side = market.Long
	case "SHORT":
		side = market.Short
	default:
		if p.PositionAmt.IsPositive() {
			side = market.Long
		} else if p.PositionAmt.IsNegative() {
			side = market.Short
		}
	}
	return Position{
		Symbol:       p.Symbol,
		Side:         side,
		Amount:       p.PositionAmt.Abs(),
		AvgPrice:     p.AvgPrice,
		Leverage:     p.Leverage,
		UnrealizedPL: p.UnrealizedProfit,
	}
}

// Positions returns the non-empty positions on symbol.
func (c *Client) Positions(ctx context.Context, symbol string) ([]Position, error) {
	sym, err := market.ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("symbol", sym.String())

	var raw []positionPayload
	if err := c.private(ctx, "GET", "/openApi/swap/v2/user/positions", params, &raw); err != nil {
		return nil, fmt.Errorf("positions %s: %w", sym, err)
	}

	var out []Position
	for _, r := range raw {
		p := r.position()
		if p.Amount.IsZero() || p.Side == market.Flat {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) GetOpenPosition(ctx context.Context, symbol string) (market.Side, error) {
	ps, err := c.Positions(ctx, symbol)
	if err != nil {
		return market.Flat, fmt.Errorf("%w: %v", broker.ErrExecution, err)
	}
	if len(ps) == 0 {
		return market.Flat, nil
	}
	return ps[0].Side, nil
}

type orderPayload struct {
	Order struct {
		OrderID     int64           `json:"orderId"`
		Symbol      string          `json:"symbol"`
		Side        string          `json:"side"`
		Quantity    decimal.Decimal `json:"quantity"`
		AvgPrice    decimal.Decimal `json:"avgPrice"`
		ReduceOnly  bool            `json:"reduceOnly"`
		ClientOrder string          `json:"clientOrderID"`
	} `json:"order"`
}

func (c *Client) PlaceOrder(ctx context.Context, side broker.OrderSide, symbol string, amount float64) (broker.Order, error) {
	return c.submit(ctx, broker.OrderRequest{Symbol: symbol, Side: side, Amount: amount})
}

// ClosePosition sends a reduce-only market order against the open side.
// A non-positive amount closes the whole position.
func (c *Client) ClosePosition(ctx context.Context, symbol string, amount float64) error {
	ps, err := c.Positions(ctx, symbol)
	if err != nil {
		return fmt.Errorf("%w: %v", broker.ErrExecution, err)
	}
	if len(ps) == 0 {
		c.log.Warn().Str("symbol", symbol).Msg("no position to close")
		return fmt.Errorf("%w: %s", broker.ErrAlreadyFlat, symbol)
	}

	p := ps[0]
	qty := p.Amount.InexactFloat64()
	if amount > 0 && amount < qty {
		qty = amount
	}
	_, err = c.submit(ctx, broker.OrderRequest{
		Symbol:     symbol,
		Side:       broker.CloseSide(p.Side),
		Amount:     qty,
		ReduceOnly: true,
	})
	return err
}

func (c *Client) submit(ctx context.Context, req broker.OrderRequest) (broker.Order, error) {
	if err := req.Validate(); err != nil {
		return broker.Order{}, err
	}
	sym, err := market.ParseSymbol(req.Symbol)
	if err != nil {
		return broker.Order{}, fmt.Errorf("%w: %v", broker.ErrExecution, err)
	}

	params := url.Values{}
	params.Set("symbol", sym.String())
	params.Set("side", strings.ToUpper(string(req.Side)))
	params.Set("positionSide", "BOTH")
	params.Set("type", "MARKET")
	params.Set("quantity", formatQuantity(req.Amount))
	if req.ReduceOnly {
		params.Set("reduceOnly", "true")
	}

	var resp orderPayload
	if err := c.private(ctx, "POST", "/openApi/swap/v2/trade/order", params, &resp); err != nil {
		return broker.Order{}, fmt.Errorf("%w: order %s %s: %v", broker.ErrExecution, req.Side, sym, err)
	}

	o := broker.Order{
		ID:         strconv.FormatInt(resp.Order.OrderID, 10),
		Symbol:     sym.String(),
		Side:       req.Side,
		Amount:     req.Amount,
		Price:      resp.Order.AvgPrice.InexactFloat64(),
		ReduceOnly: req.ReduceOnly,
		Time:       c.now().UTC().Truncate(time.Millisecond),
	}
	c.log.Info().Str("symbol", o.Symbol).Str("side", string(o.Side)).Float64("amount", o.Amount).Bool("reduce_only", o.ReduceOnly).Str("order_id", o.ID).Msg("order placed")
	return o, nil
}

// SetLeverage sets the leverage for both position sides.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	if leverage <= 0 {
		return fmt.Errorf("%w: leverage must be positive, got %d", broker.ErrExecution, leverage)
	}
	sym, err := market.ParseSymbol(symbol)
	if err != nil {
		return fmt.Errorf("%w: %v", broker.ErrExecution, err)
	}

	for _, side := range []string{"LONG", "SHORT"} {
		params := url.Values{}
		params.Set("symbol", sym.String())
		params.Set("side", side)
		params.Set("leverage", strconv.Itoa(leverage))
		if err := c.private(ctx, "POST", "/openApi/swap/v2/trade/leverage", params, nil); err != nil {
			return fmt.Errorf("%w: leverage %s %s: %v", broker.ErrExecution, sym, side, err)
		}
	}
	return nil
}

func formatQuantity(q float64) string {
	return decimal.NewFromFloat(q).Round(8).String()
}
