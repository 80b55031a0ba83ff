package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.WriteRun(context.Background(), createTestRun("run-1", "first")))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.ListRuns(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpenStampsSchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	require.NoError(t, s.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.DB().Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer")
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNewRunRecord(t *testing.T) {
	run := NewRunRecord("golden-walk", "abc123", 80, 0.5, 2000, 20)

	parsed, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	assert.Equal(t, "golden-walk", run.Name)
	assert.Equal(t, "abc123", run.ProfileHash)
	assert.Equal(t, int64(80), run.Precision)
	assert.Equal(t, 0.5, run.Scale)
	assert.Equal(t, int64(2000), run.Shots)
	assert.Equal(t, int64(20), run.Steps)
	assert.False(t, run.CreatedAt.IsZero())
}
