package profile

import (
	"fmt"
	"strings"

	"github.com/NetworkArchetype/PLM/internal/plm"
)

// Validation error codes (E100-E199)
const (
	// Input errors (E101-E105)
	ErrNameEmpty              = "E101" // name is required
	ErrDecimalInvalid         = "E102" // coefficient does not parse as a decimal
	ErrMuZero                 = "E103" // mu must be non-zero
	ErrHashInvalid            = "E104" // hash_hex does not parse as hex
	ErrDenominatorNonPositive = "E105" // block_size + crc_value must be positive

	// Pipeline errors (E106-E107)
	ErrUnknownRule    = "E106" // pipeline names an unknown rule
	ErrRuleParamRange = "E107" // rule parameter out of range

	// Run shape errors (E108-E110)
	ErrStepsRange = "E108" // steps must be >= 1
	ErrShotsRange = "E109" // shots must be >= 1
	ErrScaleRange = "E110" // scale must fit in a float64
)

// maxRolloverBits bounds the rollover modulus so a profile cannot demand
// a multi-megabyte hash width.
const maxRolloverBits = 4096

// ValidationError represents a semantic problem in a compiled profile.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled profile against the run semantics.
// Returns all errors found (does not fail-fast).
func Validate(p *Profile) []ValidationError {
	var errs []ValidationError

	// E101: name is required
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrNameEmpty,
		})
	}

	// E102: coefficients must be exact decimals
	for _, c := range []struct{ field, value string }{
		{"inputs.pi", p.Inputs.Pi},
		{"inputs.lam", p.Inputs.Lam},
	} {
		if _, err := plm.ParseDecimal(c.value); err != nil {
			errs = append(errs, ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("%q does not parse as a decimal", c.value),
				Code:    ErrDecimalInvalid,
			})
		}
	}
	if mu, err := plm.ParseDecimal(p.Inputs.Mu); err != nil {
		errs = append(errs, ValidationError{
			Field:   "inputs.mu",
			Message: fmt.Sprintf("%q does not parse as a decimal", p.Inputs.Mu),
			Code:    ErrDecimalInvalid,
		})
	} else if mu.IsZero() {
		// E103: mu must be non-zero
		errs = append(errs, ValidationError{
			Field:   "inputs.mu",
			Message: "mu must be non-zero",
			Code:    ErrMuZero,
		})
	}

	// E104: hash_hex must parse
	if _, err := plm.ParseHexInt(p.Inputs.HashHex); err != nil {
		errs = append(errs, ValidationError{
			Field:   "inputs.hash_hex",
			Message: fmt.Sprintf("%q does not parse as hex", p.Inputs.HashHex),
			Code:    ErrHashInvalid,
		})
	}

	// E105: the combined denominator must be positive
	if _, err := plm.ComputeC(p.Inputs.BlockSize, p.Inputs.CRCValue); err != nil {
		msg := fmt.Sprintf("block_size (%d) + crc_value (%d) must be positive", p.Inputs.BlockSize, p.Inputs.CRCValue)
		if plm.IsBlockRange(err) {
			msg = fmt.Sprintf("block_size (%d) + crc_value (%d) overflows int64", p.Inputs.BlockSize, p.Inputs.CRCValue)
		}
		errs = append(errs, ValidationError{
			Field:   "inputs",
			Message: msg,
			Code:    ErrDenominatorNonPositive,
		})
	}

	for i, rs := range p.Pipeline {
		switch rs.Name {
		case RuleIncrementX, RuleAddCRC:
			// delta is unrestricted
		case RuleRolloverHash:
			// E107: rollover width must be sane
			if rs.Bits < 1 || rs.Bits > maxRolloverBits {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("pipeline[%d].bits", i),
					Message: fmt.Sprintf("bits must be between 1 and %d, got %d", maxRolloverBits, rs.Bits),
					Code:    ErrRuleParamRange,
				})
			}
		default:
			// E106: unknown rule
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("pipeline[%d].rule", i),
				Message: fmt.Sprintf("unknown rule %q (want %s, %s, or %s)", rs.Name, RuleIncrementX, RuleAddCRC, RuleRolloverHash),
				Code:    ErrUnknownRule,
			})
		}
	}

	// E108: steps must be >= 1
	if p.Steps < 1 {
		errs = append(errs, ValidationError{
			Field:   "steps",
			Message: fmt.Sprintf("steps must be >= 1, got %d", p.Steps),
			Code:    ErrStepsRange,
		})
	}

	// E109: shots must be >= 1
	if p.Encoder.Shots < 1 {
		errs = append(errs, ValidationError{
			Field:   "encoder.shots",
			Message: fmt.Sprintf("shots must be >= 1, got %d", p.Encoder.Shots),
			Code:    ErrShotsRange,
		})
	}

	// E102/E110: scale must be a decimal representable as a float
	if scale, err := plm.ParseDecimal(p.Encoder.Scale); err != nil {
		errs = append(errs, ValidationError{
			Field:   "encoder.scale",
			Message: fmt.Sprintf("%q does not parse as a decimal", p.Encoder.Scale),
			Code:    ErrDecimalInvalid,
		})
	} else if _, err := scale.Float64(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "encoder.scale",
			Message: fmt.Sprintf("%q does not fit in a float64", p.Encoder.Scale),
			Code:    ErrScaleRange,
		})
	}

	return errs
}
