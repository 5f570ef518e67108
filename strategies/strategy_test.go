package strategies

import (
	"testing"

	"github.com/rustyeddy/cryptobot/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"ma_cross", "ma_cross", false},
		{"MA-Cross", "ma_cross", false},
		{"MACrossStrategy", "ma_cross", false},
		{"harmonic", "harmonic", false},
		{"HarmonicStrategy", "harmonic", false},
		{"rsi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.name, DefaultOptions())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "supported: harmonic, ma_cross")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name())
		})
	}
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"harmonic", "ma_cross"}, Names())
}

func TestBuild(t *testing.T) {
	got, err := Build([]string{"ma_cross", "MACrossStrategy", "harmonic"}, Options{Tolerance: 0.05})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ma_cross", got[0].Name())
	assert.Equal(t, 0.05, got[1].(Harmonic).Tolerance())

	_, err = Build(nil, DefaultOptions())
	assert.Error(t, err)

	_, err = Build([]string{"nope"}, DefaultOptions())
	assert.Error(t, err)
}

func TestSignalSide(t *testing.T) {
	assert.Equal(t, market.Long, Long.Side())
	assert.Equal(t, market.Short, Short.Side())
	assert.Equal(t, market.Flat, Neutral.Side())
}
