// Package plm implements the PLM transform: a deterministic high-precision
// rational map from seven scalar inputs to one decimal value
//
//	S = ((pi * Y) * (lam * X)) / (mu * C)
//
// where Y is the integer value of a hexadecimal hash string and C is the sum
// of a block size and a CRC component.
//
// The package is a pure leaf: no state, no I/O, no logging. Everything above
// it (the sequencer, the temporal encoder, the CLI) builds on these
// guarantees:
//
// Determinism:
// Identical inputs produce the identical decimal - same coefficient, same
// exponent, same string form. All arithmetic runs in a fixed 80-digit
// half-even context (Precision); input decimals are parsed exactly and are
// never rounded at construction.
//
// Exactness:
// Y is an arbitrary-precision integer, so hash strings of any length keep
// their full value. The algebraic identities of the transform (factorization,
// bilinearity in X and Y, ratio invariance when X and C scale together) hold
// exactly, not approximately.
//
// Failure semantics:
// Violated preconditions surface as *InputError with a code identifying the
// kind (invalid hex, zero mu, non-positive C). Errors are raised at the call
// site that first detects the violation, never coerced to a default value,
// and never retried - these are input-validity errors, not transient faults.
package plm
