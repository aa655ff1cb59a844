package jsonfmt

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

// text renders symbols of either kind as a Go string.
func text[S Symbol](symbols []S) string {
	if wide[S]() {
		units := make([]uint16, len(symbols))
		for i, c := range symbols {
			units[i] = uint16(c)
		}
		return string(utf16.Decode(units))
	}
	b := make([]byte, len(symbols))
	for i, c := range symbols {
		b[i] = byte(c)
	}
	return string(b)
}

// symbolsOf converts a Go string to symbols of kind S.
func symbolsOf[S Symbol](s string) []S {
	if wide[S]() {
		units := utf16.Encode([]rune(s))
		out := make([]S, len(units))
		for i, u := range units {
			out[i] = S(u)
		}
		return out
	}
	out := make([]S, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = S(s[i])
	}
	return out
}

func encode[T any, S Symbol](t *testing.T, f Formatter[T, S], v T) string {
	t.Helper()
	w := NewWriter[S]()
	f.Serialize(w, v)
	out, err := w.Result()
	require.NoError(t, err)
	return text(out)
}

func encodeErr[T any, S Symbol](f Formatter[T, S], v T) error {
	w := NewWriter[S]()
	f.Serialize(w, v)
	return w.Err()
}

func decode[T any, S Symbol](t *testing.T, f Formatter[T, S], s string) T {
	t.Helper()
	r := NewReader(symbolsOf[S](s))
	v := f.Deserialize(r)
	r.EnsureEnd()
	require.NoError(t, r.Err())
	return v
}

func decodeErr[T any, S Symbol](f Formatter[T, S], s string) error {
	r := NewReader(symbolsOf[S](s))
	f.Deserialize(r)
	r.EnsureEnd()
	return r.Err()
}

// bothSymbols runs test once per symbol kind.
func bothSymbols(t *testing.T, utf8Test, utf16Test func(t *testing.T)) {
	t.Run("Utf8", utf8Test)
	t.Run("Utf16", utf16Test)
}
