package temporal

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

// Angle reduces a transform output to a rotation parameter:
// scale * (float64(s) mod 2π), with the remainder normalized into
// [0, 2π) before scaling so negative values land in the same range as
// positive ones. The conversion is lossy and one-way - s cannot be
// recovered from the result, and no caller should try. Values beyond
// float64 range surface as an error rather than ±Inf.
func Angle(s *apd.Decimal, scale float64) (float64, error) {
	f, err := s.Float64()
	if err != nil {
		return 0, fmt.Errorf("temporal: value %s out of float64 range: %w", s, err)
	}
	base := math.Mod(f, 2*math.Pi)
	if base < 0 {
		base += 2 * math.Pi
	}
	return scale * base, nil
}
