package jsonfmt

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIO indicates that Encode/Decode was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("jsonfmt: Encode/Decode called with a nil io.Reader/io.Writer")

	// ErrSyntax is the parse-error kind. Every malformed-input error wraps it.
	ErrSyntax = errors.New("jsonfmt: syntax error")

	// ErrTruncatedData indicates that the input ended before the value was complete.
	ErrTruncatedData = fmt.Errorf("%w: unexpected end of input", ErrSyntax)

	// ErrTrailingData is returned when non-whitespace symbols follow the top-level value.
	ErrTrailingData = fmt.Errorf("%w: trailing data after top-level value", ErrSyntax)

	// ErrNestingLimit indicates that a value nested deeper than MaxDepth.
	// On encode this is how cyclic graphs are stopped, so it is never recovered from.
	ErrNestingLimit = errors.New("jsonfmt: nesting limit exceeded")

	// ErrNotSupported indicates a type or value that has no derivable formatter,
	// such as channels, functions, complex numbers or NaN.
	ErrNotSupported = errors.New("jsonfmt: not supported")

	// ErrInvalidEnumValue indicates an enum value or name that is not a declared member.
	ErrInvalidEnumValue = errors.New("jsonfmt: invalid enum value")
)
