package strategies

import (
	"fmt"

	"github.com/rustyeddy/cryptobot/indicators"
	"github.com/rustyeddy/cryptobot/market"
)

// MACross follows the moving average trend: LONG while the fast MA is above
// the slow MA, SHORT otherwise.
type MACross struct{}

func (MACross) Name() string { return "ma_cross" }

func (MACross) Analyze(_ []market.Candle, tc indicators.Context) (Opinion, error) {
	if tc.MAFast == 0 || tc.MASlow == 0 {
		return neutral("moving averages unavailable"), nil
	}

	if tc.Trend == indicators.Bullish {
		return Opinion{
			Signal: Long,
			Reason: fmt.Sprintf("MA golden cross (fast %.2f > slow %.2f)", tc.MAFast, tc.MASlow),
		}, nil
	}
	return Opinion{
		Signal: Short,
		Reason: fmt.Sprintf("MA death cross (fast %.2f <= slow %.2f)", tc.MAFast, tc.MASlow),
	}, nil
}
