package canon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/canon"
)

func TestHash_Deterministic(t *testing.T) {
	v := canon.Object{"name": canon.String("walk"), "steps": canon.Int(20)}

	a, err := canon.Hash("plm/profile/v1", v)
	require.NoError(t, err)
	b, err := canon.Hash("plm/profile/v1", v)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
}

func TestHash_DomainSeparation(t *testing.T) {
	v := canon.Object{"name": canon.String("walk")}

	a, err := canon.Hash("plm/profile/v1", v)
	require.NoError(t, err)
	b, err := canon.Hash("plm/trace/v1", v)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_SensitiveToContent(t *testing.T) {
	a, err := canon.Hash("plm/profile/v1", canon.Object{"steps": canon.Int(20)})
	require.NoError(t, err)
	b, err := canon.Hash("plm/profile/v1", canon.Object{"steps": canon.Int(21)})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_UnmarshalableValue(t *testing.T) {
	_, err := canon.Hash("plm/profile/v1", map[string]any{"scale": 1.5})
	require.Error(t, err)
}

func TestHashBytes_NullSeparatorMatters(t *testing.T) {
	// "ab" under domain "cd" must differ from "b" under "cda": without the
	// separator both would hash the same bytes.
	assert.NotEqual(t,
		canon.HashBytes("cd", []byte("ab")),
		canon.HashBytes("cda", []byte("b")))
}
