package sequencer

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/NetworkArchetype/PLM/internal/plm"
)

// Identity leaves the inputs unchanged; stepping with it advances t only.
func Identity() Rule {
	return func(in plm.Inputs) (plm.Inputs, error) { return in, nil }
}

// IncrementX adds delta to x each step.
func IncrementX(delta int64) Rule {
	return func(in plm.Inputs) (plm.Inputs, error) {
		x, ok := plm.CheckedAdd(in.X, delta)
		if !ok {
			return in, fmt.Errorf("increment_x: x %d + %d overflows int64", in.X, delta)
		}
		return in.WithX(x), nil
	}
}

// AddCRC adds delta to the CRC component each step, moving C with it. The
// rule itself accepts any resulting value; a walk that drives C to zero or
// below surfaces as a transform error on the following compute.
func AddCRC(delta int64) Rule {
	return func(in plm.Inputs) (plm.Inputs, error) {
		v, ok := plm.CheckedAdd(in.CRCValue, delta)
		if !ok {
			return in, fmt.Errorf("add_crc: crc_value %d + %d overflows int64", in.CRCValue, delta)
		}
		return in.WithCRCValue(v), nil
	}
}

// RolloverHash interprets the hash string as an integer, adds 1 modulo
// 2^bits, and re-encodes it as fixed-width lowercase hex, width
// ceil(bits/4) and at least 1. The walk is cyclic: after 2^bits steps the
// hash is back where it started.
func RolloverHash(bits uint) Rule {
	width := int(bits+3) / 4
	if width < 1 {
		width = 1
	}
	modulus := new(apd.BigInt).Lsh(apd.NewBigInt(1), bits)
	return func(in plm.Inputs) (plm.Inputs, error) {
		y, err := plm.ParseHexInt(in.HashHex)
		if err != nil {
			return in, err
		}
		y.Add(y, apd.NewBigInt(1))
		y.Mod(y, modulus)
		h, err := plm.FormatHexInt(y, width)
		if err != nil {
			return in, err
		}
		return in.WithHashHex(h), nil
	}
}

// Compose chains rules left to right into one rule; the first error stops
// the chain. Composing zero rules behaves as Identity.
func Compose(rules ...Rule) Rule {
	return func(in plm.Inputs) (plm.Inputs, error) {
		var err error
		for _, r := range rules {
			if in, err = r(in); err != nil {
				return in, err
			}
		}
		return in, nil
	}
}
