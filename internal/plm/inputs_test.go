package plm_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/plm"
)

func TestNewInputs(t *testing.T) {
	in, err := plm.NewInputs("3.14", "2.71", "1.61", 42, "1f4", 10, 3)
	require.NoError(t, err)
	assert.Equal(t, "3.14", in.Pi.String())
	assert.Equal(t, "2.71", in.Lam.String())
	assert.Equal(t, "1.61", in.Mu.String())
	assert.Equal(t, int64(42), in.X)
	assert.Equal(t, "1f4", in.HashHex)
	assert.Equal(t, int64(10), in.BlockSize)
	assert.Equal(t, int64(3), in.CRCValue)
	require.NoError(t, in.Validate())
}

func TestNewInputs_BadCoefficient(t *testing.T) {
	_, err := plm.NewInputs("3.14", "nope", "1", 1, "ff", 1, 0)
	require.Error(t, err)
	assert.True(t, plm.IsInvalidDecimal(err))
	assert.Contains(t, err.Error(), "lam")
}

func TestInputs_Validate(t *testing.T) {
	valid := func(t *testing.T) plm.Inputs {
		in, err := plm.NewInputs("1", "1", "1", 1, "ff", 1, 0)
		require.NoError(t, err)
		return in
	}

	t.Run("zero value is incomplete", func(t *testing.T) {
		err := plm.Inputs{}.Validate()
		require.Error(t, err)
		assert.True(t, plm.IsInvalidDecimal(err))
	})
	t.Run("bad hash", func(t *testing.T) {
		err := valid(t).WithHashHex("g1").Validate()
		assert.True(t, plm.IsInvalidHex(err))
	})
	t.Run("prefixed hash is fine", func(t *testing.T) {
		assert.NoError(t, valid(t).WithHashHex("0x12").Validate())
	})
	t.Run("zero mu", func(t *testing.T) {
		in, err := plm.NewInputs("1", "1", "0", 1, "ff", 1, 0)
		require.NoError(t, err)
		assert.True(t, plm.IsDivisionByZero(in.Validate()))
	})
	t.Run("zero mu wins over bad hash", func(t *testing.T) {
		// mu fails fast, before the hash parse and the C derivation.
		in, err := plm.NewInputs("1", "1", "0", 1, "zz", 0, 0)
		require.NoError(t, err)
		assert.True(t, plm.IsDivisionByZero(in.Validate()))
	})
	t.Run("non-positive block", func(t *testing.T) {
		err := valid(t).WithBlockSize(-3).WithCRCValue(3).Validate()
		assert.True(t, plm.IsNonPositiveBlock(err))
	})
}

func TestInputs_WithHelpersCopy(t *testing.T) {
	base, err := plm.NewInputs("1", "2", "3", 4, "ab", 5, 6)
	require.NoError(t, err)

	got := base.WithX(7).WithCRCValue(9).WithHashHex("cd")

	// The receiver is untouched and unreplaced fields are shared.
	assert.Equal(t, int64(4), base.X)
	assert.Equal(t, int64(6), base.CRCValue)
	assert.Equal(t, "ab", base.HashHex)
	assert.Equal(t, int64(7), got.X)
	assert.Equal(t, int64(9), got.CRCValue)
	assert.Equal(t, "cd", got.HashHex)
	assert.Same(t, base.Pi, got.Pi)
	assert.Same(t, base.Mu, got.Mu)
}

func TestInputs_JSONShape(t *testing.T) {
	in, err := plm.NewInputs("3.14", "2", "1", 42, "1f4", 10, 3)
	require.NoError(t, err)
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	// Decimals serialize as strings so no reader ever sees a float.
	assert.JSONEq(t, `{
		"pi": "3.14", "lam": "2", "mu": "1", "x": 42,
		"hash_hex": "1f4", "block_size": 10, "crc_value": 3
	}`, string(raw))
}
