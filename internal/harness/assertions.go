package harness

import (
	"fmt"
	"strings"

	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// AssertionError is returned when an assertion fails.
// It includes the trace so failures can be debugged from the message.
type AssertionError struct {
	Type     string            // Assertion type for categorization
	Expected string            // Human-readable expected outcome
	Actual   string            // Human-readable actual outcome
	Records  []temporal.Record // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, rec := range e.Records {
		fmt.Fprintf(&buf, "  [t=%d] S=%s\n", rec.T, rec.S)
	}

	return buf.String()
}

// evaluateAssertion dispatches one assertion against the trace and the
// final sequencer state.
func evaluateAssertion(a Assertion, records []temporal.Record, final sequencer.State) error {
	switch a.Type {
	case AssertValueAt:
		return assertValueAt(records, a)
	case AssertMonotonic:
		return assertMonotonic(records, a)
	case AssertSign:
		return assertSign(records, a)
	case AssertFinalState:
		return assertFinalState(final, records, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertValueAt checks that S at step t equals the expected decimal.
// Comparison is numeric and exact: no rounding, but trailing zeros
// don't matter.
func assertValueAt(records []temporal.Record, a Assertion) error {
	rec, ok := findRecord(records, *a.T)
	if !ok {
		return &AssertionError{
			Type:     AssertValueAt,
			Expected: fmt.Sprintf("record at t=%d", *a.T),
			Actual:   "no such step in trace",
			Records:  records,
		}
	}

	expected, err := plm.ParseDecimal(a.S)
	if err != nil {
		return fmt.Errorf("value_at: expected value %q: %w", a.S, err)
	}
	actual, err := plm.ParseDecimal(rec.S)
	if err != nil {
		return fmt.Errorf("value_at: trace value %q: %w", rec.S, err)
	}

	if expected.Cmp(actual) != 0 {
		return &AssertionError{
			Type:     AssertValueAt,
			Expected: fmt.Sprintf("S = %s at t=%d", a.S, *a.T),
			Actual:   fmt.Sprintf("S = %s", rec.S),
			Records:  records,
		}
	}

	return nil
}

// assertMonotonic checks that S moves strictly in one direction across
// the whole trace.
func assertMonotonic(records []temporal.Record, a Assertion) error {
	if len(records) < 2 {
		return &AssertionError{
			Type:     AssertMonotonic,
			Expected: "at least two records to compare",
			Actual:   fmt.Sprintf("%d record(s)", len(records)),
			Records:  records,
		}
	}

	want := -1 // prev < next for increasing
	if a.Direction == DirectionDecreasing {
		want = 1
	}

	prev, err := plm.ParseDecimal(records[0].S)
	if err != nil {
		return fmt.Errorf("monotonic: trace value %q: %w", records[0].S, err)
	}
	for _, rec := range records[1:] {
		next, err := plm.ParseDecimal(rec.S)
		if err != nil {
			return fmt.Errorf("monotonic: trace value %q: %w", rec.S, err)
		}
		if prev.Cmp(next) != want {
			return &AssertionError{
				Type:     AssertMonotonic,
				Expected: fmt.Sprintf("S strictly %s", a.Direction),
				Actual:   fmt.Sprintf("S=%s then S=%s at t=%d", prev.String(), rec.S, rec.T),
				Records:  records,
			}
		}
		prev = next
	}

	return nil
}

// assertSign checks the sign of S at step t.
func assertSign(records []temporal.Record, a Assertion) error {
	rec, ok := findRecord(records, *a.T)
	if !ok {
		return &AssertionError{
			Type:     AssertSign,
			Expected: fmt.Sprintf("record at t=%d", *a.T),
			Actual:   "no such step in trace",
			Records:  records,
		}
	}

	value, err := plm.ParseDecimal(rec.S)
	if err != nil {
		return fmt.Errorf("sign: trace value %q: %w", rec.S, err)
	}

	if value.Sign() != *a.Sign {
		return &AssertionError{
			Type:     AssertSign,
			Expected: fmt.Sprintf("sign(S) = %d at t=%d", *a.Sign, *a.T),
			Actual:   fmt.Sprintf("sign(S) = %d (S = %s)", value.Sign(), rec.S),
			Records:  records,
		}
	}

	return nil
}

// assertFinalState checks the sequencer's resting state after the run.
// Subset semantics: only the fields present in the assertion are
// compared.
func assertFinalState(final sequencer.State, records []temporal.Record, a Assertion) error {
	fail := func(field string, expected, actual any) error {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %v", field, expected),
			Actual:   fmt.Sprintf("%s = %v", field, actual),
			Records:  records,
		}
	}

	if a.T != nil && final.T != *a.T {
		return fail("t", *a.T, final.T)
	}
	if a.X != nil && final.Inputs.X != *a.X {
		return fail("x", *a.X, final.Inputs.X)
	}
	if a.HashHex != nil && final.Inputs.HashHex != *a.HashHex {
		return fail("hash_hex", *a.HashHex, final.Inputs.HashHex)
	}
	if a.BlockSize != nil && final.Inputs.BlockSize != *a.BlockSize {
		return fail("block_size", *a.BlockSize, final.Inputs.BlockSize)
	}
	if a.CRCValue != nil && final.Inputs.CRCValue != *a.CRCValue {
		return fail("crc_value", *a.CRCValue, final.Inputs.CRCValue)
	}

	return nil
}

// findRecord returns the trace record with the given step time.
func findRecord(records []temporal.Record, t int64) (temporal.Record, bool) {
	for _, rec := range records {
		if rec.T == t {
			return rec, true
		}
	}
	return temporal.Record{}, false
}
