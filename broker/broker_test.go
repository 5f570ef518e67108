package broker

import (
	"testing"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/stretchr/testify/assert"
)

func TestOrderSides(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Buy, OpenSide(market.Long))
	assert.Equal(t, Sell, OpenSide(market.Short))
	assert.Equal(t, Sell, CloseSide(market.Long))
	assert.Equal(t, Buy, CloseSide(market.Short))
}

func TestOrderRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     OrderRequest
		wantErr bool
	}{
		{"ok", OrderRequest{Symbol: "BTC-USDT", Side: Buy, Amount: 0.001}, false},
		{"no symbol", OrderRequest{Side: Buy, Amount: 1}, true},
		{"bad side", OrderRequest{Symbol: "BTC-USDT", Side: "hold", Amount: 1}, true},
		{"zero amount", OrderRequest{Symbol: "BTC-USDT", Side: Sell}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrExecution)
				return
			}
			assert.NoError(t, err)
		})
	}
}
