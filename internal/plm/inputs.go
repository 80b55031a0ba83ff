package plm

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Inputs carries the seven scalars of the transform: three exact decimal
// coefficients, the integer scaling factor x, the hash string, and the two
// block components. Treat it as a value: the With helpers return an updated
// copy and never mutate the receiver, and the decimal fields are never
// written through once set, so sharing the decimal pointers across copies
// is safe.
type Inputs struct {
	Pi        *apd.Decimal `json:"pi"`
	Lam       *apd.Decimal `json:"lam"`
	Mu        *apd.Decimal `json:"mu"`
	X         int64        `json:"x"`
	HashHex   string       `json:"hash_hex"`
	BlockSize int64        `json:"block_size"`
	CRCValue  int64        `json:"crc_value"`
}

// NewInputs builds an Inputs from decimal strings. The three coefficients
// are parsed exactly, never rounded to working precision. Hash syntax and
// denominator checks are deferred to Validate and the compute operations,
// which report them where they matter.
func NewInputs(pi, lam, mu string, x int64, hashHex string, blockSize, crcValue int64) (Inputs, error) {
	in := Inputs{X: x, HashHex: hashHex, BlockSize: blockSize, CRCValue: crcValue}
	var err error
	if in.Pi, err = parseCoefficient("pi", pi); err != nil {
		return Inputs{}, err
	}
	if in.Lam, err = parseCoefficient("lam", lam); err != nil {
		return Inputs{}, err
	}
	if in.Mu, err = parseCoefficient("mu", mu); err != nil {
		return Inputs{}, err
	}
	return in, nil
}

func parseCoefficient(field, s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, newInputError(CodeInvalidDecimal, field, "cannot parse %q", s)
	}
	return d, nil
}

// Y returns the integer value of the hash string.
func (in Inputs) Y() (*apd.BigInt, error) {
	return ParseHexInt(in.HashHex)
}

// C returns block_size + crc_value as an exact decimal.
func (in Inputs) C() (*apd.Decimal, error) {
	return ComputeC(in.BlockSize, in.CRCValue)
}

// Validate checks every precondition of the transform without computing
// it: present coefficients, non-zero mu, parseable hash, positive and
// representable C. The mu check runs before the hash parse and the C
// derivation, so a zero mu wins when several inputs are bad at once.
func (in Inputs) Validate() error {
	for _, f := range []struct {
		name string
		d    *apd.Decimal
	}{{"pi", in.Pi}, {"lam", in.Lam}, {"mu", in.Mu}} {
		if f.d == nil {
			return newInputError(CodeInvalidDecimal, f.name, "missing value")
		}
	}
	if in.Mu.IsZero() {
		return newInputError(CodeDivisionByZero, "mu", "mu is zero")
	}
	if _, err := in.Y(); err != nil {
		return err
	}
	if _, err := in.C(); err != nil {
		return err
	}
	return nil
}

// WithX returns a copy with x replaced.
func (in Inputs) WithX(x int64) Inputs {
	in.X = x
	return in
}

// WithHashHex returns a copy with the hash string replaced.
func (in Inputs) WithHashHex(h string) Inputs {
	in.HashHex = h
	return in
}

// WithBlockSize returns a copy with the block component replaced.
func (in Inputs) WithBlockSize(v int64) Inputs {
	in.BlockSize = v
	return in
}

// WithCRCValue returns a copy with the CRC component replaced.
func (in Inputs) WithCRCValue(v int64) Inputs {
	in.CRCValue = v
	return in
}

func (in Inputs) String() string {
	return fmt.Sprintf("pi=%s lam=%s mu=%s x=%d hash=%s block=%d crc=%d",
		in.Pi, in.Lam, in.Mu, in.X, in.HashHex, in.BlockSize, in.CRCValue)
}
