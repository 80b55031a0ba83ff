package temporal

import (
	"fmt"
	"math"
	"math/rand"
)

// RotationOracle is the encoding boundary. The core hands over an angle
// and a shot count and consumes the returned probability of measuring
// |1⟩ as an opaque value; what runs the rotation - closed form, sampler,
// real backend - is the implementation's business.
type RotationOracle interface {
	RunRotation(angle float64, shots int) (float64, error)
}

// AnalyticOracle evaluates the reference single-qubit circuit
// H·Rz(θ)·H in closed form: p1 = sin²(θ/2). Shots are validated but do
// not affect the exact result, so replays are noise-free.
type AnalyticOracle struct{}

func (AnalyticOracle) RunRotation(angle float64, shots int) (float64, error) {
	if shots < 1 {
		return 0, fmt.Errorf("temporal: shots must be >= 1, got %d", shots)
	}
	s := math.Sin(angle / 2)
	return s * s, nil
}

// SampledOracle estimates the same probability empirically: shots
// Bernoulli draws against the analytic p1 from a seeded source. Two
// oracles built with the same seed and fed the same calls return
// identical estimates. Not safe for concurrent use.
type SampledOracle struct {
	rng *rand.Rand
}

// NewSampledOracle returns a sampling oracle seeded deterministically.
func NewSampledOracle(seed int64) *SampledOracle {
	return &SampledOracle{rng: rand.New(rand.NewSource(seed))}
}

func (o *SampledOracle) RunRotation(angle float64, shots int) (float64, error) {
	p, err := AnalyticOracle{}.RunRotation(angle, shots)
	if err != nil {
		return 0, err
	}
	ones := 0
	for i := 0; i < shots; i++ {
		if o.rng.Float64() < p {
			ones++
		}
	}
	return float64(ones) / float64(shots), nil
}
