package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrDataUnavailable means a fetch returned nothing usable. Callers skip the
// symbol for this cycle.
var ErrDataUnavailable = errors.New("market data unavailable")

// Source fetches candles ordered oldest to newest.
type Source interface {
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)
}

// Fetch wraps src so that every failure, including an empty result, is
// reported as ErrDataUnavailable. Candles are returned sorted by time.
func Fetch(ctx context.Context, src Source, symbol, timeframe string, limit int) ([]Candle, error) {
	candles, err := src.FetchCandles(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDataUnavailable, symbol, timeframe, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s %s: no candles", ErrDataUnavailable, symbol, timeframe)
	}

	sorted := sort.SliceIsSorted(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	if !sorted {
		out := make([]Candle, len(candles))
		copy(out, candles)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Time.Before(out[j].Time)
		})
		candles = out
	}
	return candles, nil
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error)

func (f SourceFunc) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	return f(ctx, symbol, timeframe, limit)
}
