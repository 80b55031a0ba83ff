package profile

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError reports a structural problem in a profile source: a
// missing field, a wrong type, or a CUE evaluation failure.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError converts a raw CUE error into a CompileError carrying
// the first reported position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}
	first := errs[0]
	ce := &CompileError{Field: "cue", Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}

// Load reads and compiles one profile file.
func Load(path string) (*Profile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(path))
	return Compile(value.LookupPath(cue.ParsePath("profile")))
}

// Compile extracts a Profile from an evaluated CUE value. The value is
// the profile block itself, not its enclosing file.
func Compile(v cue.Value) (*Profile, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "profile", Message: "profile block is required"}
	}

	p := &Profile{}

	name, err := requiredString(v, "name")
	if err != nil {
		return nil, err
	}
	p.Name = name

	inputs := v.LookupPath(cue.ParsePath("inputs"))
	if !inputs.Exists() {
		return nil, &CompileError{Field: "inputs", Message: "inputs block is required", Pos: v.Pos()}
	}
	if p.Inputs.Pi, err = requiredString(inputs, "pi"); err != nil {
		return nil, err
	}
	if p.Inputs.Lam, err = requiredString(inputs, "lam"); err != nil {
		return nil, err
	}
	if p.Inputs.Mu, err = requiredString(inputs, "mu"); err != nil {
		return nil, err
	}
	if p.Inputs.X, err = requiredInt64(inputs, "x"); err != nil {
		return nil, err
	}
	if p.Inputs.HashHex, err = requiredString(inputs, "hash_hex"); err != nil {
		return nil, err
	}
	if p.Inputs.BlockSize, err = requiredInt64(inputs, "block_size"); err != nil {
		return nil, err
	}
	if p.Inputs.CRCValue, err = requiredInt64(inputs, "crc_value"); err != nil {
		return nil, err
	}

	if p.Pipeline, err = compilePipeline(v.LookupPath(cue.ParsePath("pipeline"))); err != nil {
		return nil, err
	}

	if p.Steps, err = requiredInt64(v, "steps"); err != nil {
		return nil, err
	}

	p.Encoder = EncoderSpec{Scale: DefaultScale, Shots: DefaultShots}
	if enc := v.LookupPath(cue.ParsePath("encoder")); enc.Exists() {
		if p.Encoder.Scale, err = optionalString(enc, "scale", DefaultScale); err != nil {
			return nil, err
		}
		if p.Encoder.Shots, err = optionalInt64(enc, "shots", DefaultShots); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// compilePipeline reads the rule list. A missing pipeline means the run
// advances time without changing inputs.
func compilePipeline(list cue.Value) ([]RuleSpec, error) {
	if !list.Exists() {
		return nil, nil
	}
	iter, err := list.List()
	if err != nil {
		return nil, &CompileError{Field: "pipeline", Message: "pipeline must be a list", Pos: list.Pos()}
	}
	var rules []RuleSpec
	for iter.Next() {
		entry := iter.Value()
		rs := RuleSpec{Delta: DefaultDelta, Bits: DefaultBits}
		name, err := requiredString(entry, "rule")
		if err != nil {
			return nil, err
		}
		rs.Name = name
		if rs.Delta, err = optionalInt64(entry, "delta", DefaultDelta); err != nil {
			return nil, err
		}
		if rs.Bits, err = optionalInt64(entry, "bits", DefaultBits); err != nil {
			return nil, err
		}
		rules = append(rules, rs)
	}
	return rules, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: field + " must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func requiredInt64(v cue.Value, field string) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, &CompileError{Field: field, Message: field + " must be an integer", Pos: fv.Pos()}
	}
	return n, nil
}

func optionalString(v cue.Value, field, fallback string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return fallback, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: field + " must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func optionalInt64(v cue.Value, field string, fallback int64) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return fallback, nil
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, &CompileError{Field: field, Message: field + " must be an integer", Pos: fv.Pos()}
	}
	return n, nil
}
