// Package store provides SQLite-backed durable storage for recorded
// temporal runs.
//
// The store keeps two tables:
//   - Runs: one row per recorded run (profile identity, encoder
//     settings, creation time)
//   - Samples: one row per emitted step, keyed by (run_id, t)
//
// # Invariants
//
// Exact values stay exact: the transform output S is stored as decimal
// TEXT, never as a float. The theta/p1/exp_z columns are the lossy
// encoder outputs and are stored as REAL.
//
// Run IDs are UUIDv7, so lexicographic id order is creation order and
// every listing query orders by id alone.
//
// Writes are idempotent: every insert uses ON CONFLICT DO NOTHING, so
// replaying a recorded run into the same database is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
