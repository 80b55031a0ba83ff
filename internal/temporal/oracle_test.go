package temporal_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/temporal"
)

func TestAnalyticOracle(t *testing.T) {
	o := temporal.AnalyticOracle{}

	cases := []struct {
		angle float64
		want  float64
	}{
		{0, 0},
		{math.Pi, 1},
		{math.Pi / 2, 0.5},
		{2 * math.Pi, 0},
	}
	for _, tc := range cases {
		got, err := o.RunRotation(tc.angle, 100)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-12, "angle %v", tc.angle)
	}
}

func TestAnalyticOracle_ShotsValidated(t *testing.T) {
	_, err := temporal.AnalyticOracle{}.RunRotation(1, 0)
	require.Error(t, err)
	_, err = temporal.AnalyticOracle{}.RunRotation(1, -5)
	require.Error(t, err)
}

func TestSampledOracle_Deterministic(t *testing.T) {
	angles := []float64{0.3, 1.1, 2.2, 3.3, 4.4}
	run := func(seed int64) []float64 {
		o := temporal.NewSampledOracle(seed)
		out := make([]float64, 0, len(angles))
		for _, a := range angles {
			p, err := o.RunRotation(a, 500)
			require.NoError(t, err)
			out = append(out, p)
		}
		return out
	}

	assert.Equal(t, run(42), run(42))
	assert.NotEqual(t, run(42), run(43))
}

func TestSampledOracle_ApproximatesAnalytic(t *testing.T) {
	o := temporal.NewSampledOracle(1)
	for _, angle := range []float64{0.5, 1.5, 2.5} {
		want := math.Pow(math.Sin(angle/2), 2)
		got, err := o.RunRotation(angle, 4000)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 0.05, "angle %v", angle)
	}
}

func TestSampledOracle_DegenerateProbabilities(t *testing.T) {
	o := temporal.NewSampledOracle(7)

	// p = 0 and p = 1 sample exactly, with no noise at all.
	p, err := o.RunRotation(0, 1000)
	require.NoError(t, err)
	assert.Zero(t, p)

	p, err = o.RunRotation(math.Pi, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-12)

	_, err = o.RunRotation(1, 0)
	require.Error(t, err)
}
