package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	t.Parallel()

	out, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)

	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestStdDevIsPopulation(t *testing.T) {
	t.Parallel()

	out, err := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[7], 1e-9)
}

func TestEMASeededWithSMA(t *testing.T) {
	t.Parallel()

	out, err := EMA([]float64{1, 2, 3, 4}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out[2], 1e-9)
	// alpha = 0.5
	assert.InDelta(t, 3.0, out[3], 1e-9)
}

func TestEMASkipsLeadingNaN(t *testing.T) {
	t.Parallel()

	in := []float64{math.NaN(), math.NaN(), 2, 2, 2}
	out, err := EMA(in, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, 2.0, out[3], 1e-9)
	assert.InDelta(t, 2.0, out[4], 1e-9)
}

func TestRMA(t *testing.T) {
	t.Parallel()

	out, err := RMA([]float64{2, 4, 6, 10}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, out[1], 1e-9)
	assert.InDelta(t, 4.5, out[2], 1e-9)
	assert.InDelta(t, 7.25, out[3], 1e-9)
}

func TestRollingMaxMin(t *testing.T) {
	t.Parallel()

	in := []float64{3, 1, 4, 1, 5}
	hi, err := RollingMax(in, 3)
	require.NoError(t, err)
	lo, err := RollingMin(in, 3)
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 4, 5}, hi[2:])
	assert.Equal(t, []float64{1, 1, 1}, lo[2:])
}

func TestFill(t *testing.T) {
	t.Parallel()

	in := []float64{math.NaN(), math.NaN(), 3, math.NaN(), math.Inf(1), 5}
	Fill(in)
	assert.Equal(t, []float64{0, 0, 3, 3, 3, 5}, in)
}

func TestLastAndPrev(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, lastOf(nil))
	assert.Equal(t, 7.0, prevOf([]float64{7}))
	assert.Equal(t, 1.0, prevOf([]float64{1, 2}))
}
