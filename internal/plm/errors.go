package plm

import (
	"errors"
	"fmt"
)

// Code classifies an input-validity failure of the transform.
type Code string

const (
	// CodeInvalidHex reports a hash string containing a non-hexadecimal
	// character, or no characters at all.
	CodeInvalidHex Code = "INVALID_HEX"

	// CodeInvalidDecimal reports a coefficient string that is not a valid
	// decimal number.
	CodeInvalidDecimal Code = "INVALID_DECIMAL"

	// CodeDivisionByZero reports a zero denominator: mu = 0, or C = 0 when
	// a caller supplies C directly.
	CodeDivisionByZero Code = "DIVISION_BY_ZERO"

	// CodeNonPositiveBlock reports block_size + crc_value <= 0.
	CodeNonPositiveBlock Code = "NON_POSITIVE_BLOCK"

	// CodeBlockRange reports block components whose sum cannot be formed
	// without integer overflow.
	CodeBlockRange Code = "BLOCK_RANGE"
)

// InputError reports an invalid transform input. The transform never masks
// bad inputs with defaults; it returns one of these instead.
type InputError struct {
	Code    Code
	Field   string // input field that triggered the failure, "" if composite
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("plm: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("plm: %s: %s: %s", e.Code, e.Field, e.Message)
}

func newInputError(code Code, field, format string, args ...any) *InputError {
	return &InputError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidHex reports whether err is an InputError with CodeInvalidHex.
func IsInvalidHex(err error) bool {
	var ie *InputError
	return errors.As(err, &ie) && ie.Code == CodeInvalidHex
}

// IsInvalidDecimal reports whether err is an InputError with CodeInvalidDecimal.
func IsInvalidDecimal(err error) bool {
	var ie *InputError
	return errors.As(err, &ie) && ie.Code == CodeInvalidDecimal
}

// IsDivisionByZero reports whether err is an InputError with CodeDivisionByZero.
func IsDivisionByZero(err error) bool {
	var ie *InputError
	return errors.As(err, &ie) && ie.Code == CodeDivisionByZero
}

// IsNonPositiveBlock reports whether err is an InputError with CodeNonPositiveBlock.
func IsNonPositiveBlock(err error) bool {
	var ie *InputError
	return errors.As(err, &ie) && ie.Code == CodeNonPositiveBlock
}

// IsBlockRange reports whether err is an InputError with CodeBlockRange.
func IsBlockRange(err error) bool {
	var ie *InputError
	return errors.As(err, &ie) && ie.Code == CodeBlockRange
}
