package canon_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NetworkArchetype/PLM/internal/canon"
)

func TestMarshalCanonical_Scalars(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"string", canon.String("hello"), `"hello"`},
		{"plain string", "hello", `"hello"`},
		{"int", canon.Int(-42), `-42`},
		{"plain int64", int64(9007199254740993), `9007199254740993`},
		{"bool true", true, `true`},
		{"bool false", canon.Bool(false), `false`},
		{"empty array", canon.Array{}, `[]`},
		{"empty object", canon.Object{}, `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := canon.MarshalCanonical(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestMarshalCanonical_Nested(t *testing.T) {
	v := canon.Object{
		"b": canon.Array{canon.Int(1), canon.String("two"), canon.Bool(true)},
		"a": canon.Object{"y": canon.Int(2), "x": canon.Int(1)},
	}
	got, err := canon.MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"x":1,"y":2},"b":[1,"two",true]}`, string(got))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := canon.MarshalCanonical(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = canon.MarshalCanonical(map[string]any{"theta": 0.5})
	require.Error(t, err)
}

func TestMarshalCanonical_RejectsNull(t *testing.T) {
	_, err := canon.MarshalCanonical(nil)
	require.Error(t, err)

	_, err = canon.MarshalCanonical([]any{"ok", nil})
	require.Error(t, err)
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	got, err := canon.MarshalCanonical("<a>&</a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a>&</a>"`, string(got))
}

func TestMarshalCanonical_LineSeparatorsStayLiteral(t *testing.T) {
	// encoding/json escapes U+2028/U+2029 for JavaScript embedding; RFC
	// 8785 forbids that.
	got, err := canon.MarshalCanonical("a b c")
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(got))
}

func TestMarshalCanonical_ControlCharacterEscapes(t *testing.T) {
	got, err := canon.MarshalCanonical("line\nbreak\tand\x01raw")
	require.NoError(t, err)
	assert.Equal(t, `"line\nbreak\tandraw"`, string(got))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// Composed e-acute and decomposed e + combining acute marshal to the
	// same bytes.
	composed, err := canon.MarshalCanonical("café")
	require.NoError(t, err)
	decomposed, err := canon.MarshalCanonical("café")
	require.NoError(t, err)
	assert.Equal(t, string(composed), string(decomposed))
}

func TestSortedKeys_UTF16Order(t *testing.T) {
	// U+1F602 encodes as the surrogate pair D83D DE02 in UTF-16, which
	// sorts below U+F900 - the opposite of their UTF-8 byte order.
	obj := canon.Object{
		"\U0001F602": canon.Int(1),
		"豈":     canon.Int(2),
	}
	assert.Equal(t, []string{"\U0001F602", "豈"}, obj.SortedKeys())

	utf8Order := []string{"\U0001F602", "豈"}
	sort.Strings(utf8Order)
	assert.Equal(t, []string{"豈", "\U0001F602"}, utf8Order,
		"byte order must differ or this test proves nothing")
}

func TestMarshalCanonical_MapOrderIndependent(t *testing.T) {
	a := map[string]any{"t": int64(3), "s": "23.90625", "name": "walk"}
	b := map[string]any{"name": "walk", "s": "23.90625", "t": int64(3)}

	ba, err := canon.MarshalCanonical(a)
	require.NoError(t, err)
	bb, err := canon.MarshalCanonical(b)
	require.NoError(t, err)
	assert.Equal(t, string(ba), string(bb))
	assert.Equal(t, `{"name":"walk","s":"23.90625","t":3}`, string(ba))
}
