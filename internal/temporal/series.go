package temporal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/NetworkArchetype/PLM/internal/sequencer"
)

// Config tunes the encoding of a run. Scale multiplies each angle; Shots
// is the per-step repetition count handed to the oracle.
type Config struct {
	Scale float64
	Shots int
}

// Record is one step of an encoded time series. S keeps the exact
// decimal string; Theta, P1 and ExpZ are floats and carry the lossy
// half of the contract.
type Record struct {
	T     int64   `json:"t"`
	S     string  `json:"s"`
	Theta float64 `json:"theta"`
	P1    float64 `json:"p1"`
	ExpZ  float64 `json:"exp_z"`
}

// Run drives seq for steps iterations. Each iteration encodes the
// current state - read S, map it to an angle, query the oracle, record
// (t, S, theta, p1, expZ) with expZ = 1 - 2·p1 - and then advances the
// sequencer. Records therefore cover t0 .. t0+steps-1 and the sequencer
// is left one step past the last record. Any transform, angle, oracle or
// step error fails the whole run.
func Run(seq *sequencer.Sequencer, steps int, cfg Config, oracle RotationOracle) ([]Record, error) {
	if steps < 1 {
		return nil, fmt.Errorf("temporal: steps must be >= 1, got %d", steps)
	}
	if oracle == nil {
		return nil, fmt.Errorf("temporal: no oracle configured")
	}

	records := make([]Record, 0, steps)
	for i := 0; i < steps; i++ {
		t := seq.State().T
		s, err := seq.Value()
		if err != nil {
			return nil, fmt.Errorf("temporal: value at t=%d: %w", t, err)
		}
		theta, err := Angle(s, cfg.Scale)
		if err != nil {
			return nil, fmt.Errorf("temporal: t=%d: %w", t, err)
		}
		p1, err := oracle.RunRotation(theta, cfg.Shots)
		if err != nil {
			return nil, fmt.Errorf("temporal: oracle at t=%d: %w", t, err)
		}
		records = append(records, Record{
			T:     t,
			S:     s.String(),
			Theta: theta,
			P1:    p1,
			ExpZ:  1 - 2*p1,
		})
		if _, err := seq.Step(); err != nil {
			return nil, fmt.Errorf("temporal: step from t=%d: %w", t, err)
		}
	}
	return records, nil
}

// WriteCSV emits records in the reference column order and float widths:
// t,S,theta,p1,expZ with theta at 8 decimal places and the probabilities
// at 6.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"t", "S", "theta", "p1", "expZ"}); err != nil {
		return fmt.Errorf("temporal: write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.T, 10),
			r.S,
			strconv.FormatFloat(r.Theta, 'f', 8, 64),
			strconv.FormatFloat(r.P1, 'f', 6, 64),
			strconv.FormatFloat(r.ExpZ, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("temporal: write csv row t=%d: %w", r.T, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
