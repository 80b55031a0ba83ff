package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// createTestStore creates a file-backed store under a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with a fixed creation time so
// round-trips compare exactly.
func createTestRun(id, name string) RunRecord {
	return RunRecord{
		ID:          id,
		Name:        name,
		ProfileHash: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		Precision:   80,
		Scale:       1.0,
		Shots:       2000,
		Steps:       3,
		CreatedAt:   time.Date(2026, 8, 24, 12, 0, 0, 123456789, time.UTC),
	}
}

// createTestRecords returns a short fixed trace.
func createTestRecords() []temporal.Record {
	return []temporal.Record{
		{T: 0, S: "23.90625", Theta: 1.02537213, P1: 0.240813, ExpZ: 0.518374},
		{T: 1, S: "47.8125", Theta: 2.05074426, P1: 0.729667, ExpZ: -0.459334},
		{T: 2, S: "71.71875", Theta: 3.07611640, P1: 0.998928, ExpZ: -0.997856},
	}
}
