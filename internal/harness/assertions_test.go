package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

func i64(v int64) *int64 { return &v }
func iptr(v int) *int    { return &v }
func sptr(v string) *string {
	return &v
}

func traceFixture() []temporal.Record {
	return []temporal.Record{
		{T: 0, S: "10"},
		{T: 1, S: "20"},
		{T: 2, S: "35.5"},
	}
}

func finalFixture() sequencer.State {
	return sequencer.State{
		T: 3,
		Inputs: plm.Inputs{
			X:         4,
			HashHex:   "ff",
			BlockSize: 2,
			CRCValue:  3,
		},
	}
}

func TestAssertValueAt(t *testing.T) {
	recs := traceFixture()

	err := evaluateAssertion(Assertion{Type: AssertValueAt, T: i64(1), S: "20"}, recs, finalFixture())
	assert.NoError(t, err)

	// Numeric comparison: trailing zeros are fine.
	err = evaluateAssertion(Assertion{Type: AssertValueAt, T: i64(1), S: "20.000"}, recs, finalFixture())
	assert.NoError(t, err)
}

func TestAssertValueAtMismatch(t *testing.T) {
	err := evaluateAssertion(Assertion{Type: AssertValueAt, T: i64(1), S: "21"}, traceFixture(), finalFixture())
	require.Error(t, err)

	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AssertValueAt, aerr.Type)
	assert.Contains(t, aerr.Error(), "S = 21 at t=1")
	assert.Contains(t, aerr.Error(), "S = 20")
}

func TestAssertValueAtMissingStep(t *testing.T) {
	err := evaluateAssertion(Assertion{Type: AssertValueAt, T: i64(9), S: "1"}, traceFixture(), finalFixture())
	require.Error(t, err)

	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Actual, "no such step")
}

func TestAssertMonotonic(t *testing.T) {
	recs := traceFixture()

	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertMonotonic, Direction: DirectionIncreasing}, recs, finalFixture()))

	err := evaluateAssertion(Assertion{Type: AssertMonotonic, Direction: DirectionDecreasing}, recs, finalFixture())
	require.Error(t, err)

	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Expected, "strictly decreasing")
}

func TestAssertMonotonicRejectsPlateau(t *testing.T) {
	recs := []temporal.Record{
		{T: 0, S: "10"},
		{T: 1, S: "10.0"},
		{T: 2, S: "11"},
	}

	err := evaluateAssertion(Assertion{Type: AssertMonotonic, Direction: DirectionIncreasing}, recs, finalFixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t=1")
}

func TestAssertMonotonicNeedsTwoRecords(t *testing.T) {
	recs := []temporal.Record{{T: 0, S: "10"}}

	err := evaluateAssertion(Assertion{Type: AssertMonotonic, Direction: DirectionIncreasing}, recs, finalFixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two records")
}

func TestAssertSign(t *testing.T) {
	recs := []temporal.Record{
		{T: 0, S: "-3.5"},
		{T: 1, S: "0"},
		{T: 2, S: "42"},
	}

	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertSign, T: i64(0), Sign: iptr(-1)}, recs, finalFixture()))
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertSign, T: i64(1), Sign: iptr(0)}, recs, finalFixture()))
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertSign, T: i64(2), Sign: iptr(1)}, recs, finalFixture()))

	err := evaluateAssertion(Assertion{Type: AssertSign, T: i64(0), Sign: iptr(1)}, recs, finalFixture())
	require.Error(t, err)

	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Actual, "sign(S) = -1")
}

func TestAssertFinalState(t *testing.T) {
	final := finalFixture()

	// Subset semantics: any combination of present fields.
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertFinalState, T: i64(3)}, nil, final))
	assert.NoError(t, evaluateAssertion(Assertion{
		Type:      AssertFinalState,
		T:         i64(3),
		X:         i64(4),
		HashHex:   sptr("ff"),
		BlockSize: i64(2),
		CRCValue:  i64(3),
	}, nil, final))
}

func TestAssertFinalStateMismatch(t *testing.T) {
	final := finalFixture()

	err := evaluateAssertion(Assertion{Type: AssertFinalState, X: i64(99)}, nil, final)
	require.Error(t, err)

	var aerr *AssertionError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, AssertFinalState, aerr.Type)
	assert.Contains(t, aerr.Expected, "x = 99")
	assert.Contains(t, aerr.Actual, "x = 4")

	err = evaluateAssertion(Assertion{Type: AssertFinalState, HashHex: sptr("00")}, nil, final)
	require.Error(t, err)
}

func TestAssertionErrorIncludesTrace(t *testing.T) {
	err := evaluateAssertion(Assertion{Type: AssertValueAt, T: i64(0), S: "99"}, traceFixture(), finalFixture())
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: value_at")
	assert.Contains(t, msg, "[t=0] S=10")
	assert.Contains(t, msg, "[t=2] S=35.5")
}

func TestEvaluateUnknownAssertionType(t *testing.T) {
	err := evaluateAssertion(Assertion{Type: "bogus"}, traceFixture(), finalFixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown assertion type")
}
