package plm

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// ParseHexInt converts a hexadecimal string to an arbitrary-precision
// integer. The input may be padded with surrounding whitespace and may
// carry one optional case-insensitive "0x" prefix; what remains must be
// one or more hex digits, upper or lower case, of any length - odd digit
// counts included. Anything else yields an InputError with CodeInvalidHex.
func ParseHexInt(s string) (*apd.BigInt, error) {
	digits := strings.TrimSpace(s)
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	if digits == "" {
		return nil, newInputError(CodeInvalidHex, "hash_hex", "no hex digits in %q", s)
	}
	for i, r := range digits {
		if !isHexDigit(r) {
			return nil, newInputError(CodeInvalidHex, "hash_hex", "non-hex character %q at offset %d", r, i)
		}
	}
	v, ok := new(apd.BigInt).SetString(digits, 16)
	if !ok {
		// Unreachable after the character scan, kept as a hard stop in
		// case the scan and SetString ever disagree.
		return nil, newInputError(CodeInvalidHex, "hash_hex", "cannot parse %q", s)
	}
	return v, nil
}

// FormatHexInt renders v as lowercase hexadecimal, left-padded with zeros to
// width digits. v must be non-negative and must fit in width digits; both
// violations indicate a caller bug and yield CodeInvalidHex.
func FormatHexInt(v *apd.BigInt, width int) (string, error) {
	if v.Sign() < 0 {
		return "", newInputError(CodeInvalidHex, "hash_hex", "negative value %s", v.String())
	}
	s := v.Text(16)
	if len(s) > width {
		return "", newInputError(CodeInvalidHex, "hash_hex", "value %s exceeds %d hex digits", s, width)
	}
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s, nil
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return true
	}
	return false
}
