// Package temporal encodes PLM time series for an external measurement
// oracle. It owns the one deliberately lossy edge of the system: Angle
// collapses an exact decimal into a bounded float64 rotation parameter,
// an oracle turns that angle into a probability, and Run walks a
// sequencer to produce the (t, S, theta, p1, expZ) series the
// surrounding tooling consumes. Everything upstream of Angle keeps the
// transform's exactness guarantees; everything from Angle on is
// display-grade by contract.
package temporal
