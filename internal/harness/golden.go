package harness

import (
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/NetworkArchetype/PLM/internal/canon"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// All fields use canonical JSON serialization for deterministic
// comparison, which means the float columns are pre-formatted to fixed
// width: canonical JSON has no float type.
type TraceSnapshot struct {
	ScenarioName string
	ProfileHash  string
	Trace        []temporal.Record
	FinalState   sequencer.State
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for
// canonical JSON serialization. Angles render at 8 decimal places,
// probabilities at 6, matching the CSV surface.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Trace))
	for i, rec := range s.Trace {
		trace[i] = map[string]any{
			"t":     rec.T,
			"s":     rec.S,
			"theta": strconv.FormatFloat(rec.Theta, 'f', 8, 64),
			"p1":    strconv.FormatFloat(rec.P1, 'f', 6, 64),
			"exp_z": strconv.FormatFloat(rec.ExpZ, 'f', 6, 64),
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"profile_hash":  s.ProfileHash,
		"trace":         trace,
		"final_state": map[string]any{
			"t":          s.FinalState.T,
			"x":          s.FinalState.Inputs.X,
			"hash_hex":   s.FinalState.Inputs.HashHex,
			"block_size": s.FinalState.Inputs.BlockSize,
			"crc_value":  s.FinalState.Inputs.CRCValue,
		},
	}
}

// Snapshot serializes a result's trace as canonical JSON under the given
// scenario name. The bytes are stable across runs and platforms, so they
// can be stored and compared directly.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		ProfileHash:  result.ProfileHash,
		Trace:        result.Records,
		FinalState:   result.FinalState,
	}
	return canon.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result's trace against the
// golden file for the given scenario name.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
