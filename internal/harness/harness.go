// Package harness provides conformance testing for run profiles.
//
// The harness compiles a CUE profile, runs it through the sequencer and
// the temporal encoder, and validates the resulting trace against
// declared assertions and golden files.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: linear_x_walk
//	description: "x grows by one each step, so S scales linearly"
//	profile: ../profiles/linear_x_walk.cue
//	assertions:
//	  - type: value_at
//	    t: 2
//	    s: "71.71875"
//	  - type: monotonic
//	    direction: increasing
//	  - type: sign
//	    t: 0
//	    sign: 1
//	  - type: final_state
//	    t: 4
//	    x: 5
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - value_at: S at a given step equals an exact decimal
//   - monotonic: S is strictly increasing or decreasing across the trace
//   - sign: S at a given step is negative, zero, or positive
//   - final_state: the sequencer ends at the expected time and inputs
//
// # Deterministic Testing
//
// Scenarios always run with the analytic rotation oracle, so a trace is
// a pure function of its profile. This is what makes golden comparison
// sound: identical profiles produce byte-identical canonical traces.
package harness

import (
	"fmt"

	"github.com/NetworkArchetype/PLM/internal/profile"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success. True if all assertions hold.
	Pass bool `json:"pass"`

	// ProfileHash is the content address of the profile that ran.
	ProfileHash string `json:"profile_hash"`

	// Records is the emitted trace in step order.
	Records []temporal.Record `json:"records"`

	// FinalState is where the sequencer stopped: one step past the last
	// emitted record.
	FinalState sequencer.State `json:"final_state"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Infrastructure failures (unreadable profile, failing run) return an
// error; assertion failures are collected on the Result instead. The
// scenario runs with the analytic oracle so results are reproducible.
func Run(scenario *Scenario) (*Result, error) {
	prof, err := profile.Load(scenario.Profile)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	runnable, err := prof.Build()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	hash, err := prof.Hash()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	seq := sequencer.New(runnable.Inputs, runnable.Rule)
	records, err := temporal.Run(seq, runnable.Steps, runnable.Config, temporal.AnalyticOracle{})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.ProfileHash = hash
	result.Records = records
	result.FinalState = seq.State()

	for _, assertion := range scenario.Assertions {
		if err := evaluateAssertion(assertion, records, result.FinalState); err != nil {
			result.AddError(err.Error())
		}
	}

	return result, nil
}
