package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGoldenWalk(t *testing.T) {
	r, err := validProfile().Build()
	require.NoError(t, err)

	assert.Equal(t, int64(1), r.Inputs.X)
	assert.Equal(t, "0001", r.Inputs.HashHex)
	assert.Equal(t, 20, r.Steps)
	assert.Equal(t, 1.0, r.Config.Scale)
	assert.Equal(t, 2000, r.Config.Shots)

	// One application of the composed pipeline bumps x and rolls the hash.
	next, err := r.Rule(r.Inputs)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.X)
	assert.Equal(t, "0002", next.HashHex)
}

func TestBuildComposesPipelineInOrder(t *testing.T) {
	p := validProfile()
	p.Pipeline = []RuleSpec{
		{Name: RuleIncrementX, Delta: 2},
		{Name: RuleAddCRC, Delta: 3},
	}

	r, err := p.Build()
	require.NoError(t, err)

	next, err := r.Rule(r.Inputs)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next.X)
	assert.Equal(t, int64(103), next.CRCValue)
}

func TestBuildEmptyPipelineIsIdentity(t *testing.T) {
	p := validProfile()
	p.Pipeline = nil

	r, err := p.Build()
	require.NoError(t, err)

	next, err := r.Rule(r.Inputs)
	require.NoError(t, err)
	assert.Equal(t, r.Inputs, next)
}

func TestBuildInvalidProfileFailsWithFirstError(t *testing.T) {
	p := validProfile()
	p.Name = ""
	p.Steps = 0

	_, err := p.Build()
	require.Error(t, err)

	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ErrNameEmpty, verr.Code)
}

func TestHashDeterministic(t *testing.T) {
	h1, err := validProfile().Hash()
	require.NoError(t, err)
	h2, err := validProfile().Hash()
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Regexp(t, "^[0-9a-f]{64}$", h1)
}

func TestHashSensitiveToInputs(t *testing.T) {
	base, err := validProfile().Hash()
	require.NoError(t, err)

	p := validProfile()
	p.Inputs.X = 2
	changed, err := p.Hash()
	require.NoError(t, err)

	assert.NotEqual(t, base, changed)
}

func TestHashIgnoresIrrelevantRuleParams(t *testing.T) {
	// increment_x never reads bits, rollover_hash never reads delta, so
	// neither may move the content address.
	base, err := validProfile().Hash()
	require.NoError(t, err)

	p := validProfile()
	p.Pipeline[0].Bits = 999
	p.Pipeline[1].Delta = -7
	same, err := p.Hash()
	require.NoError(t, err)

	assert.Equal(t, base, same)
}

func TestHashSpellingInvariance(t *testing.T) {
	// A compiled profile that leans on defaults hashes the same as one
	// spelling those defaults out.
	compiled, err := compileProfile(t, `
		profile: {
			name: "bare"
			inputs: {
				pi:         "3"
				lam:        "2"
				mu:         "4"
				x:          1
				hash_hex:   "ff"
				block_size: 10
				crc_value:  6
			}
			steps: 5
		}
	`)
	require.NoError(t, err)

	explicit := &Profile{
		Name: "bare",
		Inputs: InputSpec{
			Pi: "3", Lam: "2", Mu: "4",
			X: 1, HashHex: "ff", BlockSize: 10, CRCValue: 6,
		},
		Steps:   5,
		Encoder: EncoderSpec{Scale: DefaultScale, Shots: DefaultShots},
	}

	h1, err := compiled.Hash()
	require.NoError(t, err)
	h2, err := explicit.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
