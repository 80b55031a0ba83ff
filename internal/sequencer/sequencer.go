package sequencer

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"github.com/NetworkArchetype/PLM/internal/plm"
)

// State is the (t, inputs) pair a Sequencer owns. T starts at 0 and grows
// by exactly 1 per Step.
type State struct {
	T      int64      `json:"t"`
	Inputs plm.Inputs `json:"inputs"`
}

// Rule advances the transform inputs by one step. Rules are pure: they
// return new inputs and leave the argument untouched. A rule error aborts
// the step before anything is committed.
type Rule func(plm.Inputs) (plm.Inputs, error)

// Observer runs after every successful Step with the committed state and
// its value.
type Observer func(State, *apd.Decimal)

// Sequencer iterates the transform over a caller-supplied rule. It holds
// exactly one live state and no history.
type Sequencer struct {
	ctx      *apd.Context
	state    State
	rule     Rule
	observer Observer
}

// Option configures a Sequencer at construction.
type Option func(*Sequencer)

// WithContext overrides the arithmetic context. The default is the
// transform's 80-digit half-even context.
func WithContext(ctx *apd.Context) Option {
	return func(s *Sequencer) { s.ctx = ctx }
}

// WithObserver registers fn to run after each successful Step.
func WithObserver(fn Observer) Option {
	return func(s *Sequencer) { s.observer = fn }
}

// New returns a Sequencer at t=0 over initial, advancing with rule on
// each Step. A nil rule behaves as Identity.
func New(initial plm.Inputs, rule Rule, opts ...Option) *Sequencer {
	s := &Sequencer{
		ctx:   plm.NewContext(),
		state: State{T: 0, Inputs: initial},
		rule:  rule,
	}
	if s.rule == nil {
		s.rule = Identity()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current (t, inputs) pair.
func (s *Sequencer) State() State { return s.state }

// Value computes S for the current state without advancing it. It is
// side-effect-free and repeatable for the same t.
func (s *Sequencer) Value() (*apd.Decimal, error) {
	return plm.SecretValue(s.ctx, s.state.Inputs)
}

// Step advances one timestep:
//
//  1. apply the rule to the current inputs; a rule error aborts here and
//     nothing changes,
//  2. commit (t+1, inputs') wholesale,
//  3. compute and return S of the committed state.
//
// The commit happens before the compute, so stepping into inputs the
// transform rejects leaves the sequencer at the new state: the error
// surfaces now and again on every later Value call until another Step
// moves somewhere valid. The previous state is discarded; callers wanting
// history capture each returned value themselves.
func (s *Sequencer) Step() (*apd.Decimal, error) {
	next, err := s.rule(s.state.Inputs)
	if err != nil {
		return nil, fmt.Errorf("sequencer: rule at t=%d: %w", s.state.T, err)
	}
	s.state = State{T: s.state.T + 1, Inputs: next}
	v, err := s.Value()
	if err != nil {
		return nil, err
	}
	if s.observer != nil {
		s.observer(s.state, v)
	}
	return v, nil
}
