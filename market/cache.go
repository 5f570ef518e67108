package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// kv is the slice of the redis client used by CachedSource.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedSource keeps recent fetches in redis so that the trade scan and the
// periodic report do not both hit the exchange for the same window.
// Cache failures fall through to the wrapped source.
type CachedSource struct {
	src Source
	kv  kv
	ttl time.Duration
	log zerolog.Logger
}

// NewCachedSource wraps src. ttl should be shorter than the timeframe polled.
func NewCachedSource(src Source, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return newCachedSource(src, client, ttl, log)
}

func newCachedSource(src Source, store kv, ttl time.Duration, log zerolog.Logger) *CachedSource {
	return &CachedSource{
		src: src,
		kv:  store,
		ttl: ttl,
		log: log.With().Str("component", "candle-cache").Logger(),
	}
}

func cacheKey(symbol, timeframe string, limit int) string {
	return fmt.Sprintf("candles:%s:%s:%d", symbol, timeframe, limit)
}

func (s *CachedSource) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]Candle, error) {
	key := cacheKey(symbol, timeframe, limit)

	raw, err := s.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var candles []Candle
		if err := json.Unmarshal(raw, &candles); err == nil && len(candles) > 0 {
			return candles, nil
		}
		s.log.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	candles, err := s.src.FetchCandles(ctx, symbol, timeframe, limit)
	if err != nil || len(candles) == 0 {
		return candles, err
	}

	if data, err := json.Marshal(candles); err == nil {
		if err := s.kv.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return candles, nil
}
