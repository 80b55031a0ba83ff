// Package canon produces RFC 8785 canonical JSON and content-addressed
// hashes from it. Profile identity and golden trace snapshots both go
// through this package, so its output must be byte-stable: object keys
// sort by UTF-16 code units, strings are NFC-normalized, and floats and
// null are rejected outright rather than serialized unstably.
package canon

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed taxonomy of the JSON shapes canonical marshaling
// accepts: strings, 64-bit integers, booleans, arrays, objects. Floats
// and null are not representable.
type Value interface {
	val()
}

// String is a canonical JSON string.
type String string

func (String) val() {}

// Int is a canonical JSON integer. Always int64, never a float.
type Int int64

func (Int) val() {}

// Bool is a canonical JSON boolean.
type Bool bool

func (Bool) val() {}

// Array is an ordered sequence of canonical values.
type Array []Value

func (Array) val() {}

// Object maps string keys to canonical values. Marshaling iterates it in
// canonical key order, never map order.
type Object map[string]Value

func (Object) val() {}

// MarshalCanonical renders v as RFC 8785 canonical JSON. Besides the
// Value types it accepts plain string, int, int64, bool, []any and
// map[string]any. Floats and null anywhere in v are an error.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("canon: null is forbidden")
	case String:
		appendCanonicalString(buf, string(val))
	case string:
		appendCanonicalString(buf, val)
	case Int:
		fmt.Fprintf(buf, "%d", int64(val))
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case int:
		fmt.Fprintf(buf, "%d", val)
	case Bool:
		appendCanonicalBool(buf, bool(val))
	case bool:
		appendCanonicalBool(buf, val)
	case Array:
		return appendCanonicalArray(buf, val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			cv, err := toValue(elem)
			if err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = cv
		}
		return appendCanonicalArray(buf, arr)
	case Object:
		return appendCanonicalObject(buf, val)
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			cv, err := toValue(elem)
			if err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = cv
		}
		return appendCanonicalObject(buf, obj)
	case float32, float64:
		return fmt.Errorf("canon: floats are forbidden: %v", val)
	default:
		return fmt.Errorf("canon: unsupported type %T", v)
	}
	return nil
}

func toValue(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("canon: null is forbidden")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int64:
		return Int(val), nil
	case int:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case float32, float64:
		return nil, fmt.Errorf("canon: floats are forbidden: %v", val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			cv, err := toValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			cv, err := toValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = cv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("canon: unsupported type %T", v)
	}
}

// appendCanonicalString writes s per RFC 8785: NFC-normalized, with only
// quote, backslash, and the C0 control range escaped. HTML characters,
// U+2028 and U+2029 stay literal - encoding/json would escape all of
// them, which is why this writes the escapes itself.
func appendCanonicalString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range norm.NFC.String(s) {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

func appendCanonicalBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteString("true")
		return
	}
	buf.WriteString("false")
}

func appendCanonicalArray(buf *bytes.Buffer, arr Array) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendCanonical(buf, elem); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func appendCanonicalObject(buf *bytes.Buffer, obj Object) error {
	buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := appendCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// SortedKeys returns the object's keys in RFC 8785 order: by UTF-16 code
// units, not UTF-8 bytes. sort.Strings would order astral-plane keys
// differently, because their UTF-16 surrogates sort below the basic
// multilingual plane while their UTF-8 bytes sort above it.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	for i := 0; i < len(a16) && i < len(b16); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
