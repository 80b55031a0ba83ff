package sequencer_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/plm"
	"github.com/NetworkArchetype/PLM/internal/sequencer"
)

func TestIncrementX(t *testing.T) {
	in := seedInputs(t)

	t.Run("positive delta", func(t *testing.T) {
		out, err := sequencer.IncrementX(2)(in)
		require.NoError(t, err)
		assert.Equal(t, int64(3), out.X)
		assert.Equal(t, int64(1), in.X, "argument must stay untouched")
	})
	t.Run("negative delta", func(t *testing.T) {
		out, err := sequencer.IncrementX(-5)(in)
		require.NoError(t, err)
		assert.Equal(t, int64(-4), out.X)
	})
	t.Run("overflow", func(t *testing.T) {
		_, err := sequencer.IncrementX(1)(in.WithX(math.MaxInt64))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "increment_x")
	})
}

func TestAddCRC(t *testing.T) {
	in := seedInputs(t)

	out, err := sequencer.AddCRC(4)(in)
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.CRCValue)
	assert.Equal(t, int64(6), in.CRCValue)

	// Crossing zero is allowed at rule level; the transform complains later.
	out, err = sequencer.AddCRC(-100)(in)
	require.NoError(t, err)
	assert.Equal(t, int64(-94), out.CRCValue)

	_, err = sequencer.AddCRC(-1)(in.WithCRCValue(math.MinInt64))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add_crc")
}

func TestRolloverHash(t *testing.T) {
	base := seedInputs(t)

	t.Run("16-bit width", func(t *testing.T) {
		out, err := sequencer.RolloverHash(16)(base.WithHashHex("0001"))
		require.NoError(t, err)
		assert.Equal(t, "0002", out.HashHex)
	})
	t.Run("wraps at modulus", func(t *testing.T) {
		out, err := sequencer.RolloverHash(16)(base.WithHashHex("ffff"))
		require.NoError(t, err)
		assert.Equal(t, "0000", out.HashHex)
	})
	t.Run("8-bit cycle", func(t *testing.T) {
		rule := sequencer.RolloverHash(8)
		in := base.WithHashHex("fe")
		want := []string{"ff", "00", "01"}
		for _, w := range want {
			var err error
			in, err = rule(in)
			require.NoError(t, err)
			assert.Equal(t, w, in.HashHex)
		}
	})
	t.Run("odd bit count rounds width up", func(t *testing.T) {
		// 9 bits: modulus 512, width ceil(9/4) = 3.
		out, err := sequencer.RolloverHash(9)(base.WithHashHex("1ff"))
		require.NoError(t, err)
		assert.Equal(t, "000", out.HashHex)
	})
	t.Run("hash wider than modulus collapses", func(t *testing.T) {
		out, err := sequencer.RolloverHash(4)(base.WithHashHex("ffff"))
		require.NoError(t, err)
		assert.Equal(t, "0", out.HashHex)
	})
	t.Run("invalid hash", func(t *testing.T) {
		_, err := sequencer.RolloverHash(8)(base.WithHashHex("zz"))
		require.Error(t, err)
		assert.True(t, plm.IsInvalidHex(err))
	})
}

func TestCompose(t *testing.T) {
	base := seedInputs(t)

	t.Run("applies left to right", func(t *testing.T) {
		rule := sequencer.Compose(sequencer.IncrementX(3), sequencer.RolloverHash(8))
		out, err := rule(base.WithHashHex("fe"))
		require.NoError(t, err)
		assert.Equal(t, int64(4), out.X)
		assert.Equal(t, "ff", out.HashHex)
	})
	t.Run("first error stops the chain", func(t *testing.T) {
		called := false
		spy := func(in plm.Inputs) (plm.Inputs, error) {
			called = true
			return in, nil
		}
		rule := sequencer.Compose(sequencer.RolloverHash(8), spy)

		_, err := rule(base.WithHashHex("zz"))
		require.Error(t, err)
		assert.True(t, plm.IsInvalidHex(err))
		assert.False(t, called)
	})
	t.Run("empty composition is identity", func(t *testing.T) {
		out, err := sequencer.Compose()(base)
		require.NoError(t, err)
		assert.Equal(t, base, out)
	})
}
