package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario compiles a profile, runs it with the analytic oracle, and
// asserts on the resulting trace and final sequencer state.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden
	// file for trace comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Profile is the path to the CUE profile to run.
	// Relative paths resolve against the scenario file location.
	Profile string `yaml:"profile"`

	// Assertions validate the trace and final state.
	// Supported types: value_at, monotonic, sign, final_state
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a completed run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "value_at": S at step t equals an exact decimal
	// - "monotonic": S is strictly increasing/decreasing across the trace
	// - "sign": S at step t has the given sign
	// - "final_state": the sequencer ends in the given state
	Type string `yaml:"type"`

	// T selects the step for value_at and sign, or the expected final
	// time for final_state.
	T *int64 `yaml:"t,omitempty"`

	// S is the expected decimal value (value_at). Compared numerically,
	// so "71.71875" and "71.718750" both match.
	S string `yaml:"s,omitempty"`

	// Direction is "increasing" or "decreasing" (monotonic).
	Direction string `yaml:"direction,omitempty"`

	// Sign is the expected sign of S: -1, 0, or 1 (sign).
	Sign *int `yaml:"sign,omitempty"`

	// Expected final inputs (final_state). Subset match - only the
	// fields present are checked.
	X         *int64  `yaml:"x,omitempty"`
	HashHex   *string `yaml:"hash_hex,omitempty"`
	BlockSize *int64  `yaml:"block_size,omitempty"`
	CRCValue  *int64  `yaml:"crc_value,omitempty"`
}

// Assertion type constants.
const (
	AssertValueAt    = "value_at"
	AssertMonotonic  = "monotonic"
	AssertSign       = "sign"
	AssertFinalState = "final_state"
)

// Monotonic directions.
const (
	DirectionIncreasing = "increasing"
	DirectionDecreasing = "decreasing"
)

// LoadScenario reads and parses a scenario YAML file.
// Relative profile paths are resolved against the scenario file's
// directory. Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the profile path relative to the scenario file BEFORE validation
	if scenario.Profile != "" && !filepath.IsAbs(scenario.Profile) {
		scenario.Profile = filepath.Join(filepath.Dir(path), scenario.Profile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Profile == "" {
		return fmt.Errorf("profile is required")
	}

	if _, err := os.Stat(s.Profile); os.IsNotExist(err) {
		return fmt.Errorf("profile file not found: %s", s.Profile)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertValueAt:
		if a.T == nil || *a.T < 0 {
			return fmt.Errorf("assertions[%d]: t is required and must be non-negative for value_at", index)
		}
		if a.S == "" {
			return fmt.Errorf("assertions[%d]: s is required for value_at", index)
		}
	case AssertMonotonic:
		if a.Direction != DirectionIncreasing && a.Direction != DirectionDecreasing {
			return fmt.Errorf("assertions[%d]: direction must be %q or %q for monotonic",
				index, DirectionIncreasing, DirectionDecreasing)
		}
	case AssertSign:
		if a.T == nil || *a.T < 0 {
			return fmt.Errorf("assertions[%d]: t is required and must be non-negative for sign", index)
		}
		if a.Sign == nil || *a.Sign < -1 || *a.Sign > 1 {
			return fmt.Errorf("assertions[%d]: sign is required and must be -1, 0, or 1", index)
		}
	case AssertFinalState:
		if a.T == nil && a.X == nil && a.HashHex == nil && a.BlockSize == nil && a.CRCValue == nil {
			return fmt.Errorf("assertions[%d]: final_state requires at least one expected field", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
