package jsonfmt

import "unsafe"

// Symbol is the unit of the output stream: a UTF-8 byte or a UTF-16 code unit.
// Every formatter is written once against Symbol and instantiated per kind.
type Symbol interface {
	~uint8 | ~uint16
}

type (
	// Utf8 is the 8-bit symbol kind.
	Utf8 = byte
	// Utf16 is the 16-bit symbol kind.
	Utf16 = uint16
)

// wide reports whether S is a 16-bit symbol. The result is constant for each
// instantiation, so branches on it are resolved per symbol kind.
func wide[S Symbol]() bool {
	var s S
	return unsafe.Sizeof(s) == 2
}

// appendASCII appends an ASCII-only string as symbols.
func appendASCII[S Symbol](dst []S, s string) []S {
	for i := 0; i < len(s); i++ {
		dst = append(dst, S(s[i]))
	}
	return dst
}

// appendASCIIBytes appends ASCII-only bytes as symbols.
func appendASCIIBytes[S Symbol](dst []S, b []byte) []S {
	for _, c := range b {
		dst = append(dst, S(c))
	}
	return dst
}

// asciiString converts an ASCII-only symbol span back to a string.
func asciiString[S Symbol](span []S) string {
	b := make([]byte, len(span))
	for i, c := range span {
		b[i] = byte(c)
	}
	return string(b)
}
