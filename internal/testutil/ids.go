package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs hands out predictable run identifiers for tests.
//
// Unlike store.NewRunID, which generates a fresh UUIDv7 per call, the
// sequence here is fully deterministic: run-00000001, run-00000002, ...
// This keeps store fixtures and API response assertions byte-stable
// across runs. The zero-padded counter also preserves the property tests
// rely on from UUIDv7 IDs: lexicographic order matches creation order.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequentialRunIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewSequentialRunIDs creates a generator starting at run-00000001.
func NewSequentialRunIDs() *SequentialRunIDs {
	return &SequentialRunIDs{}
}

// Next returns the next identifier in the sequence.
func (g *SequentialRunIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("run-%08d", g.seq)
}
