package bingx

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/cryptobot/market"
)

type kline struct {
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
	Time   int64           `json:"time"`
}

func (k kline) candle() market.Candle {
	return market.Candle{
		Time:   time.UnixMilli(k.Time).UTC(),
		Open:   k.Open.InexactFloat64(),
		High:   k.High.InexactFloat64(),
		Low:    k.Low.InexactFloat64(),
		Close:  k.Close.InexactFloat64(),
		Volume: k.Volume.InexactFloat64(),
	}
}

// FetchCandles returns up to limit candles for symbol, oldest first.
func (c *Client) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]market.Candle, error) {
	sym, err := market.ParseSymbol(symbol)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", sym.String())
	params.Set("interval", timeframe)
	params.Set("limit", strconv.Itoa(limit))

	var raw []kline
	if err := c.public(ctx, "/openApi/swap/v3/quote/klines", params, &raw); err != nil {
		return nil, fmt.Errorf("klines %s: %w", sym, err)
	}

	candles := make([]market.Candle, 0, len(raw))
	for _, k := range raw {
		candles = append(candles, k.candle())
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}
