package jsonfmt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// MaxDepth is the nesting limit for recursion-candidate containers.
// Exceeding it while encoding fails with ErrNestingLimit.
const MaxDepth = 64

const defaultWriterSize = 256

// Writer emits JSON tokens as symbols of kind S into a growable buffer.
// It tracks the first error that occurs; after an error all subsequent
// write operations become no-ops.
type Writer[S Symbol] struct {
	buf   []S
	err   error // first error encountered. Subsequent writes become no-ops.
	depth int
	order binary.ByteOrder
	num   [64]byte
}

// NewWriterSize creates a Writer whose buffer starts with the given capacity.
func NewWriterSize[S Symbol](size int) *Writer[S] {
	if size <= 0 {
		size = defaultWriterSize
	}
	return &Writer[S]{buf: make([]S, 0, size), order: binary.LittleEndian}
}

// NewWriter creates a Writer with a default buffer size.
func NewWriter[S Symbol]() *Writer[S] {
	return NewWriterSize[S](0)
}

// WithByteOrder sets the byte order used by WriteTo for 16-bit symbols and
// returns the writer for chaining.
func (w *Writer[S]) WithByteOrder(order binary.ByteOrder) *Writer[S] {
	w.order = order
	return w
}

func (w *Writer[S]) Len() int     { return len(w.buf) }
func (w *Writer[S]) Depth() int   { return w.depth }
func (w *Writer[S]) Err() error   { return w.err }
func (w *Writer[S]) Symbols() []S { return w.buf }

// SetError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer[S]) SetError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result returns the written symbols and the final error state.
func (w *Writer[S]) Result() ([]S, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Reset clears the buffer, the error and the depth so the writer can be reused.
func (w *Writer[S]) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
	w.depth = 0
}

// Enter increments the nesting depth before a recursion-candidate container.
// It returns false, latching ErrNestingLimit, when the limit would be exceeded;
// in that case the depth is unchanged and Leave must not be called.
func (w *Writer[S]) Enter() bool {
	if w.err != nil {
		return false
	}
	if w.depth >= MaxDepth {
		w.err = fmt.Errorf("%w: depth %d exceeds %d while encoding", ErrNestingLimit, w.depth+1, MaxDepth)
		return false
	}
	w.depth++
	return true
}

// Leave decrements the nesting depth after a successful Enter.
func (w *Writer[S]) Leave() {
	w.depth--
}

// WriteTo implements io.WriterTo. 8-bit symbols are written as is; 16-bit
// symbols are written as two bytes each in the configured byte order.
func (w *Writer[S]) WriteTo(dst io.Writer) (int64, error) {
	if dst == nil {
		return 0, ErrNilIO
	}
	if w.err != nil {
		return 0, w.err
	}
	var out []byte
	if wide[S]() {
		out = make([]byte, 2*len(w.buf))
		for i, c := range w.buf {
			w.order.PutUint16(out[2*i:], uint16(c))
		}
	} else {
		out = make([]byte, len(w.buf))
		for i, c := range w.buf {
			out[i] = byte(c)
		}
	}
	n, err := dst.Write(out)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// --- Token Write Operations ---

func (w *Writer[S]) writeSymbol(c byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, S(c))
}

func (w *Writer[S]) WriteBeginArray()     { w.writeSymbol('[') }
func (w *Writer[S]) WriteEndArray()       { w.writeSymbol(']') }
func (w *Writer[S]) WriteBeginObject()    { w.writeSymbol('{') }
func (w *Writer[S]) WriteEndObject()      { w.writeSymbol('}') }
func (w *Writer[S]) WriteValueSeparator() { w.writeSymbol(',') }
func (w *Writer[S]) WriteNameSeparator()  { w.writeSymbol(':') }
func (w *Writer[S]) WriteQuote()          { w.writeSymbol('"') }

// WriteRaw appends an ASCII literal verbatim. It does not validate or escape.
func (w *Writer[S]) WriteRaw(literal string) {
	if w.err != nil {
		return
	}
	w.buf = appendASCII(w.buf, literal)
}

func (w *Writer[S]) WriteNull() { w.WriteRaw("null") }

func (w *Writer[S]) WriteBool(v bool) {
	if v {
		w.WriteRaw("true")
	} else {
		w.WriteRaw("false")
	}
}

func (w *Writer[S]) WriteInt64(v int64) {
	if w.err != nil {
		return
	}
	w.buf = appendASCIIBytes(w.buf, strconv.AppendInt(w.num[:0], v, 10))
}

func (w *Writer[S]) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = appendASCIIBytes(w.buf, strconv.AppendUint(w.num[:0], v, 10))
}

// WriteFloat writes f with the shortest representation that round-trips at
// the given bit size, switching to exponent form for very large or very small
// magnitudes. NaN and infinities are not representable in JSON.
func (w *Writer[S]) WriteFloat(f float64, bits int) {
	if w.err != nil {
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.err = fmt.Errorf("%w: float value %v", ErrNotSupported, f)
		return
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 {
		if (bits == 64 && (abs < 1e-6 || abs >= 1e21)) || (bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21)) {
			format = 'e'
		}
	}
	b := strconv.AppendFloat(w.num[:0], f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	w.buf = appendASCIIBytes(w.buf, b)
}

// WriteName writes a quoted member name followed by the name separator.
func (w *Writer[S]) WriteName(name string) {
	w.WriteString(name)
	w.WriteNameSeparator()
}

const hex = "0123456789abcdef"

// WriteString writes s as a quoted, escaped JSON string. Invalid UTF-8 is
// replaced by U+FFFD. Non-ASCII runes become one UTF-8 sequence or one or two
// UTF-16 code units depending on the symbol kind.
func (w *Writer[S]) WriteString(s string) {
	if w.err != nil {
		return
	}
	buf := append(w.buf, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"' || c == '\\':
				buf = append(buf, '\\', S(c))
			case c >= 0x20:
				buf = append(buf, S(c))
			case c == '\n':
				buf = append(buf, '\\', 'n')
			case c == '\r':
				buf = append(buf, '\\', 'r')
			case c == '\t':
				buf = append(buf, '\\', 't')
			case c == '\b':
				buf = append(buf, '\\', 'b')
			case c == '\f':
				buf = append(buf, '\\', 'f')
			default:
				buf = append(buf, '\\', 'u', '0', '0', S(hex[c>>4]), S(hex[c&0xF]))
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == '\u2028' || r == '\u2029' {
			buf = append(buf, '\\', 'u', '2', '0', '2', S(hex[r&0xF]))
			i += size
			continue
		}
		if wide[S]() {
			if r >= 0x10000 {
				hi, lo := utf16.EncodeRune(r)
				buf = append(buf, S(hi), S(lo))
			} else {
				buf = append(buf, S(r))
			}
		} else if r == utf8.RuneError && size == 1 {
			buf = appendASCII(buf, "\ufffd")
		} else {
			for j := 0; j < size; j++ {
				buf = append(buf, S(s[i+j]))
			}
		}
		i += size
	}
	w.buf = append(buf, '"')
}
