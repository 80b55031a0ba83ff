// Package profile compiles declarative run profiles from CUE. A profile
// pins everything a reproducible run needs - seed inputs, the update
// rule pipeline, the step count, the encoder settings - and hashes to a
// stable content address, so a recorded run can name exactly which
// profile produced it.
package profile

import (
	"fmt"

	"github.com/NetworkArchetype/PLM/internal/canon"
	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// DomainProfile is the hash domain for profile identity.
const DomainProfile = "plm/profile/v1"

// Rule names accepted in a pipeline.
const (
	RuleIncrementX   = "increment_x"
	RuleAddCRC       = "add_crc"
	RuleRolloverHash = "rollover_hash"
)

// Source defaults applied when a pipeline entry or the encoder omits a
// parameter.
const (
	DefaultDelta = 1
	DefaultBits  = 16
	DefaultScale = "1.0"
	DefaultShots = 2000
)

// Profile is one compiled run declaration.
type Profile struct {
	Name     string
	Inputs   InputSpec
	Pipeline []RuleSpec
	Steps    int64
	Encoder  EncoderSpec
}

// InputSpec carries the seed transform inputs. The decimal coefficients
// and the encoder scale stay strings end to end so profile hashing never
// touches a float.
type InputSpec struct {
	Pi        string
	Lam       string
	Mu        string
	X         int64
	HashHex   string
	BlockSize int64
	CRCValue  int64
}

// RuleSpec is one pipeline entry. Delta applies to increment_x and
// add_crc, Bits to rollover_hash; the irrelevant field is ignored.
type RuleSpec struct {
	Name  string
	Delta int64
	Bits  int64
}

// EncoderSpec tunes the temporal encoding of the run.
type EncoderSpec struct {
	Scale string
	Shots int64
}

// Runnable is a profile materialized into core values.
type Runnable struct {
	Inputs plm.Inputs
	Rule   sequencer.Rule
	Config temporal.Config
	Steps  int
}

// Build materializes the profile. Invalid profiles fail with their first
// validation error; run Validate to collect all of them.
func (p *Profile) Build() (*Runnable, error) {
	if errs := Validate(p); len(errs) > 0 {
		return nil, errs[0]
	}

	in, err := plm.NewInputs(p.Inputs.Pi, p.Inputs.Lam, p.Inputs.Mu,
		p.Inputs.X, p.Inputs.HashHex, p.Inputs.BlockSize, p.Inputs.CRCValue)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", p.Name, err)
	}

	rules := make([]sequencer.Rule, 0, len(p.Pipeline))
	for _, rs := range p.Pipeline {
		switch rs.Name {
		case RuleIncrementX:
			rules = append(rules, sequencer.IncrementX(rs.Delta))
		case RuleAddCRC:
			rules = append(rules, sequencer.AddCRC(rs.Delta))
		case RuleRolloverHash:
			rules = append(rules, sequencer.RolloverHash(uint(rs.Bits)))
		default:
			return nil, fmt.Errorf("profile %q: unknown rule %q", p.Name, rs.Name)
		}
	}

	scale, err := plm.ParseDecimal(p.Encoder.Scale)
	if err != nil {
		return nil, fmt.Errorf("profile %q: encoder scale: %w", p.Name, err)
	}
	scaleF, err := scale.Float64()
	if err != nil {
		return nil, fmt.Errorf("profile %q: encoder scale: %w", p.Name, err)
	}

	return &Runnable{
		Inputs: in,
		Rule:   sequencer.Compose(rules...),
		Config: temporal.Config{Scale: scaleF, Shots: int(p.Encoder.Shots)},
		Steps:  int(p.Steps),
	}, nil
}

// Hash returns the profile's content address: the canonical-JSON hash of
// its effective values, defaults included. Two profiles that mean the
// same run hash identically no matter how they were spelled.
func (p *Profile) Hash() (string, error) {
	pipeline := make(canon.Array, 0, len(p.Pipeline))
	for _, rs := range p.Pipeline {
		entry := canon.Object{"rule": canon.String(rs.Name)}
		switch rs.Name {
		case RuleRolloverHash:
			entry["bits"] = canon.Int(rs.Bits)
		default:
			entry["delta"] = canon.Int(rs.Delta)
		}
		pipeline = append(pipeline, entry)
	}

	return canon.Hash(DomainProfile, canon.Object{
		"name": canon.String(p.Name),
		"inputs": canon.Object{
			"pi":         canon.String(p.Inputs.Pi),
			"lam":        canon.String(p.Inputs.Lam),
			"mu":         canon.String(p.Inputs.Mu),
			"x":          canon.Int(p.Inputs.X),
			"hash_hex":   canon.String(p.Inputs.HashHex),
			"block_size": canon.Int(p.Inputs.BlockSize),
			"crc_value":  canon.Int(p.Inputs.CRCValue),
		},
		"pipeline": pipeline,
		"steps":    canon.Int(p.Steps),
		"encoder": canon.Object{
			"scale": canon.String(p.Encoder.Scale),
			"shots": canon.Int(p.Encoder.Shots),
		},
	})
}
