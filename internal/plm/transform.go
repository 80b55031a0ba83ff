package plm

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Precision is the number of significant decimal digits every transform
// operation rounds to.
const Precision = 80

// NewContext returns the arithmetic context of the transform: Precision
// significant digits, half-even rounding. Each call returns a fresh
// context, so callers may retune limits without affecting each other.
func NewContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(Precision)
	ctx.Rounding = apd.RoundHalfEven
	return ctx
}

// ParseDecimal parses s as an exact decimal. Every digit of the input is
// preserved regardless of working precision; rounding only ever happens
// inside arithmetic.
func ParseDecimal(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, newInputError(CodeInvalidDecimal, "", "cannot parse %q", s)
	}
	return d, nil
}

// ComputeC forms the denominator component C = blockSize + crcValue as an
// exact decimal. The sum must be strictly positive and representable.
func ComputeC(blockSize, crcValue int64) (*apd.Decimal, error) {
	sum, ok := CheckedAdd(blockSize, crcValue)
	if !ok {
		return nil, newInputError(CodeBlockRange, "block_size",
			"block_size %d + crc_value %d overflows int64", blockSize, crcValue)
	}
	if sum <= 0 {
		return nil, newInputError(CodeNonPositiveBlock, "",
			"block_size %d + crc_value %d = %d, need > 0", blockSize, crcValue, sum)
	}
	return apd.New(sum, 0), nil
}

// Ratio evaluates (pi*lam)/mu in ctx. mu must be non-zero.
func Ratio(ctx *apd.Context, pi, lam, mu *apd.Decimal) (*apd.Decimal, error) {
	if mu.IsZero() {
		return nil, newInputError(CodeDivisionByZero, "mu", "mu is zero")
	}
	var num, r apd.Decimal
	if _, err := ctx.Mul(&num, pi, lam); err != nil {
		return nil, fmt.Errorf("plm: multiply pi*lam: %w", err)
	}
	if _, err := ctx.Quo(&r, &num, mu); err != nil {
		return nil, fmt.Errorf("plm: divide by mu: %w", err)
	}
	return &r, nil
}

// SecretValue computes S = ((pi*Y) * (lam*x)) / (mu*C) for in, with Y
// parsed from the hash string and C formed from the block components. The
// grouping is load-bearing: the two numerator factors are formed first,
// then multiplied, then divided, with each step rounded to ctx precision.
// Reassociating the products can change the low-order digits of the result.
func SecretValue(ctx *apd.Context, in Inputs) (*apd.Decimal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	y, err := in.Y()
	if err != nil {
		return nil, err
	}
	c, err := in.C()
	if err != nil {
		return nil, err
	}

	var py, lx, num, den, s apd.Decimal
	if _, err := ctx.Mul(&py, in.Pi, apd.NewWithBigInt(y, 0)); err != nil {
		return nil, fmt.Errorf("plm: multiply pi*y: %w", err)
	}
	if _, err := ctx.Mul(&lx, in.Lam, apd.New(in.X, 0)); err != nil {
		return nil, fmt.Errorf("plm: multiply lam*x: %w", err)
	}
	if _, err := ctx.Mul(&num, &py, &lx); err != nil {
		return nil, fmt.Errorf("plm: multiply numerator: %w", err)
	}
	if _, err := ctx.Mul(&den, in.Mu, c); err != nil {
		return nil, fmt.Errorf("plm: multiply mu*c: %w", err)
	}
	if _, err := ctx.Quo(&s, &num, &den); err != nil {
		return nil, fmt.Errorf("plm: divide: %w", err)
	}
	return &s, nil
}

// CheckedAdd returns a+b and whether the sum fits in int64. The update
// rules and the C derivation both route integer arithmetic through this
// so a walk can never wrap silently.
func CheckedAdd(a, b int64) (int64, bool) {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
		return 0, false
	}
	return s, true
}
