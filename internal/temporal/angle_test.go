package temporal_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

func angleOf(t *testing.T, s string, scale float64) float64 {
	t.Helper()
	d, err := plm.ParseDecimal(s)
	require.NoError(t, err)
	got, err := temporal.Angle(d, scale)
	require.NoError(t, err)
	return got
}

func TestAngle(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		assert.Zero(t, angleOf(t, "0", 1))
	})
	t.Run("small value passes through", func(t *testing.T) {
		assert.InDelta(t, 3.0, angleOf(t, "1.5", 2), 1e-15)
	})
	t.Run("wraps past tau", func(t *testing.T) {
		assert.InDelta(t, math.Mod(6.5, 2*math.Pi), angleOf(t, "6.5", 1), 1e-15)
	})
	t.Run("negative values normalize up", func(t *testing.T) {
		assert.InDelta(t, 2*math.Pi-1, angleOf(t, "-1", 1), 1e-15)
	})
	t.Run("scale applies after the modulo", func(t *testing.T) {
		assert.InDelta(t, 0.5, angleOf(t, "1", 0.5), 1e-15)
	})
}

func TestAngle_RangeInvariant(t *testing.T) {
	for _, s := range []string{"0", "0.001", "3", "-3", "23.90625", "-987654.321", "1e300"} {
		got := angleOf(t, s, 1)
		assert.GreaterOrEqual(t, got, 0.0, "input %s", s)
		assert.Less(t, got, 2*math.Pi, "input %s", s)
	}
}

func TestAngle_Overflow(t *testing.T) {
	d, err := plm.ParseDecimal("1e400")
	require.NoError(t, err)
	_, err = temporal.Angle(d, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float64 range")
}
