// Package sequencer drives the PLM transform through discrete time. A
// Sequencer owns a single (t, inputs) state cell and an update rule; each
// Step applies the rule to produce the next inputs, commits the
// (t+1, inputs') pair wholesale, and evaluates the transform at the new
// state. Rules are pure Inputs -> Inputs functions and compose; the
// sequencer alone advances t, by exactly 1 per step, no matter how many
// rules a step chains.
//
// A Sequencer instance is confined to a single owner. Nothing here locks:
// concurrent Step calls, or Value reads racing a Step, are caller bugs.
// Run several sequences in parallel by giving each goroutine its own
// instance.
package sequencer
