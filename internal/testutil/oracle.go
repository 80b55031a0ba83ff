package testutil

import "fmt"

// OracleCall records one RunRotation invocation.
type OracleCall struct {
	Angle float64
	Shots int
}

// ScriptedOracle replays a fixed list of probabilities and records every
// call it receives.
//
// Unlike temporal.AnalyticOracle, the returned probabilities are decoupled
// from the angle, so tests can assert exactly which values flowed through
// a series run without re-deriving the rotation math. The same script
// produces byte-identical series output, which keeps golden comparisons
// stable.
//
// Thread-safety: ScriptedOracle mutates internal state on every call and
// is not safe for concurrent use; confine each instance to one test.
type ScriptedOracle struct {
	script []float64
	calls  []OracleCall
}

// NewScriptedOracle creates an oracle that returns the given probabilities
// in order.
//
// If probs is empty, every call fails — useful for asserting that a code
// path never consults the oracle.
func NewScriptedOracle(probs ...float64) *ScriptedOracle {
	return &ScriptedOracle{script: probs}
}

// RunRotation returns the next scripted probability.
//
// Implements temporal.RotationOracle. Fails once the script is exhausted.
func (o *ScriptedOracle) RunRotation(angle float64, shots int) (float64, error) {
	if len(o.calls) >= len(o.script) {
		return 0, fmt.Errorf("testutil: scripted oracle exhausted after %d calls", len(o.script))
	}
	o.calls = append(o.calls, OracleCall{Angle: angle, Shots: shots})
	return o.script[len(o.calls)-1], nil
}

// Calls returns the recorded invocations in order.
func (o *ScriptedOracle) Calls() []OracleCall {
	return o.calls
}
