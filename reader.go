package jsonfmt

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Reader scans JSON tokens from a span of symbols of kind S.
// It tracks the first error; subsequent reads become no-ops returning zero
// values, and the loop primitives report completion so callers unwind.
type Reader[S Symbol] struct {
	buf     []S
	pos     int
	err     error // first error encountered.
	depth   int
	scratch []byte
}

// NewReader creates a Reader over data. The reader does not copy data.
func NewReader[S Symbol](data []S) *Reader[S] {
	return &Reader[S]{buf: data}
}

func (r *Reader[S]) Pos() int   { return r.pos }
func (r *Reader[S]) Depth() int { return r.depth }
func (r *Reader[S]) Err() error { return r.err }

// IsEOF reports whether only whitespace remains.
func (r *Reader[S]) IsEOF() bool {
	r.skipWhitespace()
	return r.pos >= len(r.buf)
}

// SetError records the first non-nil error.
func (r *Reader[S]) SetError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Reset points the reader at new data and clears its state.
func (r *Reader[S]) Reset(data []S) {
	r.buf = data
	r.pos = 0
	r.err = nil
	r.depth = 0
}

// Enter increments the decode nesting depth, latching ErrNestingLimit when
// MaxDepth would be exceeded. Leave must only follow a successful Enter.
func (r *Reader[S]) Enter() bool {
	if r.err != nil {
		return false
	}
	if r.depth >= MaxDepth {
		r.err = fmt.Errorf("%w: depth %d exceeds %d while decoding at offset %d", ErrNestingLimit, r.depth+1, MaxDepth, r.pos)
		return false
	}
	r.depth++
	return true
}

func (r *Reader[S]) Leave() {
	r.depth--
}

// EnsureEnd fails with ErrTrailingData if anything but whitespace remains.
func (r *Reader[S]) EnsureEnd() {
	if r.err != nil {
		return
	}
	r.skipWhitespace()
	if r.pos < len(r.buf) {
		r.err = fmt.Errorf("%w: offset %d", ErrTrailingData, r.pos)
	}
}

func (r *Reader[S]) skipWhitespace() {
	for r.pos < len(r.buf) {
		switch r.buf[r.pos] {
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

// fail latches a syntax error describing what was expected at the current offset.
func (r *Reader[S]) fail(expected string) {
	if r.err != nil {
		return
	}
	if r.pos >= len(r.buf) {
		r.err = fmt.Errorf("%w: expected %s at offset %d", ErrTruncatedData, expected, r.pos)
		return
	}
	r.err = fmt.Errorf("%w: expected %s, found %q at offset %d", ErrSyntax, expected, rune(r.buf[r.pos]), r.pos)
}

// PeekKind returns the first symbol of the next token as a byte, or 0 at the
// end of input or after an error. Non-ASCII symbols are reported as 0xFF.
func (r *Reader[S]) PeekKind() byte {
	if r.err != nil {
		return 0
	}
	r.skipWhitespace()
	if r.pos >= len(r.buf) {
		return 0
	}
	if c := r.buf[r.pos]; c < utf8.RuneSelf {
		return byte(c)
	}
	return 0xFF
}

func (r *Reader[S]) expect(c byte) {
	if r.err != nil {
		return
	}
	r.skipWhitespace()
	if r.pos < len(r.buf) && r.buf[r.pos] == S(c) {
		r.pos++
		return
	}
	r.fail(strconv.QuoteRune(rune(c)))
}

// expectAdjacent is expect without skipping whitespace first.
func (r *Reader[S]) expectAdjacent(c byte) {
	if r.err != nil {
		return
	}
	if r.pos < len(r.buf) && r.buf[r.pos] == S(c) {
		r.pos++
		return
	}
	r.fail(strconv.QuoteRune(rune(c)))
}

// expectDigitStart requires the next symbol, without skipping whitespace,
// to open an integer.
func (r *Reader[S]) expectDigitStart() {
	if r.err != nil {
		return
	}
	if r.pos < len(r.buf) {
		if c := r.buf[r.pos]; c == '-' || (c >= '0' && c <= '9') {
			return
		}
	}
	r.fail("integer")
}

func (r *Reader[S]) hasLiteral(literal string) bool {
	if len(r.buf)-r.pos < len(literal) {
		return false
	}
	for i := 0; i < len(literal); i++ {
		if r.buf[r.pos+i] != S(literal[i]) {
			return false
		}
	}
	return true
}

// --- Token Read Operations ---

// ReadIsNull consumes a null literal if one is next and reports whether it did.
func (r *Reader[S]) ReadIsNull() bool {
	if r.err != nil {
		return false
	}
	r.skipWhitespace()
	if r.hasLiteral("null") {
		r.pos += 4
		return true
	}
	return false
}

func (r *Reader[S]) ReadBeginArray()     { r.expect('[') }
func (r *Reader[S]) ReadEndArray()       { r.expect(']') }
func (r *Reader[S]) ReadBeginObject()    { r.expect('{') }
func (r *Reader[S]) ReadEndObject()      { r.expect('}') }
func (r *Reader[S]) ReadNameSeparator()  { r.expect(':') }
func (r *Reader[S]) ReadValueSeparator() { r.expect(',') }
func (r *Reader[S]) ReadQuote()          { r.expect('"') }

// TryReadEndArrayOrValueSeparator consumes ']' and returns true, or, for every
// element after the first, consumes the ',' that must precede it. count is
// incremented for each element the caller is about to read.
// After an error it always returns true.
func (r *Reader[S]) TryReadEndArrayOrValueSeparator(count *int) bool {
	return r.tryReadEndOrValueSeparator(']', count)
}

// TryReadEndObjectOrValueSeparator is TryReadEndArrayOrValueSeparator for '}'.
func (r *Reader[S]) TryReadEndObjectOrValueSeparator(count *int) bool {
	return r.tryReadEndOrValueSeparator('}', count)
}

func (r *Reader[S]) tryReadEndOrValueSeparator(end byte, count *int) bool {
	if r.err != nil {
		return true
	}
	r.skipWhitespace()
	if r.pos < len(r.buf) && r.buf[r.pos] == S(end) {
		r.pos++
		return true
	}
	if *count != 0 {
		r.expect(',')
		if r.err != nil {
			return true
		}
	}
	*count++
	return false
}

func (r *Reader[S]) ReadBool() bool {
	if r.err != nil {
		return false
	}
	r.skipWhitespace()
	switch {
	case r.hasLiteral("true"):
		r.pos += 4
		return true
	case r.hasLiteral("false"):
		r.pos += 5
		return false
	}
	r.fail("boolean")
	return false
}

// readNumberSpan consumes the symbols that may form a JSON number.
func (r *Reader[S]) readNumberSpan() string {
	if r.err != nil {
		return ""
	}
	r.skipWhitespace()
	start := r.pos
	for r.pos < len(r.buf) {
		switch r.buf[r.pos] {
		case '-', '+', '.', 'e', 'E', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			r.pos++
			continue
		}
		break
	}
	if start == r.pos {
		r.fail("number")
		return ""
	}
	span := asciiString(r.buf[start:r.pos])
	if !isJSONNumber(span) {
		r.SetError(fmt.Errorf("%w: malformed number %q ending at offset %d", ErrSyntax, span, r.pos))
		return ""
	}
	return span
}

// isJSONNumber matches -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func isJSONNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := skipDigits(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := skipDigits(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func (r *Reader[S]) numberError(span string, err error) {
	r.SetError(fmt.Errorf("%w: invalid number %q ending at offset %d: %v", ErrSyntax, span, r.pos, err))
}

// ReadInt64 reads an integer that must fit in bits.
func (r *Reader[S]) ReadInt64(bits int) int64 {
	span := r.readNumberSpan()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(span, 10, bits)
	if err != nil {
		r.numberError(span, err)
		return 0
	}
	return v
}

// ReadUint64 reads an unsigned integer that must fit in bits.
func (r *Reader[S]) ReadUint64(bits int) uint64 {
	span := r.readNumberSpan()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(span, 10, bits)
	if err != nil {
		r.numberError(span, err)
		return 0
	}
	return v
}

// ReadFloat reads a number at the given bit size.
func (r *Reader[S]) ReadFloat(bits int) float64 {
	span := r.readNumberSpan()
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(span, bits)
	if err != nil {
		r.numberError(span, err)
		return 0
	}
	return v
}

// ReadName reads a member name and the name separator that follows it.
func (r *Reader[S]) ReadName() string {
	name := r.ReadString()
	r.ReadNameSeparator()
	return name
}

// ReadString reads a quoted JSON string and returns it unescaped as UTF-8.
// Unpaired surrogates decode to U+FFFD.
func (r *Reader[S]) ReadString() string {
	r.expect('"')
	if r.err != nil {
		return ""
	}
	out := r.scratch[:0]
	for {
		if r.pos >= len(r.buf) {
			r.fail("closing quote")
			return ""
		}
		c := r.buf[r.pos]
		switch {
		case c == '"':
			r.pos++
			r.scratch = out
			return string(out)
		case c == '\\':
			r.pos++
			out = r.readEscape(out)
			if r.err != nil {
				return ""
			}
		case c < 0x20:
			r.fail("unescaped string content")
			return ""
		case c < utf8.RuneSelf || !wide[S]():
			out = append(out, byte(c))
			r.pos++
		default:
			ru := rune(c)
			r.pos++
			if utf16.IsSurrogate(ru) {
				lo := rune(utf8.RuneError)
				if r.pos < len(r.buf) {
					lo = rune(r.buf[r.pos])
				}
				if dec := utf16.DecodeRune(ru, lo); dec != utf8.RuneError {
					ru = dec
					r.pos++
				} else {
					ru = utf8.RuneError
				}
			}
			out = utf8.AppendRune(out, ru)
		}
	}
}

func (r *Reader[S]) readEscape(out []byte) []byte {
	if r.pos >= len(r.buf) {
		r.fail("escape sequence")
		return out
	}
	c := r.buf[r.pos]
	r.pos++
	switch c {
	case '"', '\\', '/':
		return append(out, byte(c))
	case 'b':
		return append(out, '\b')
	case 'f':
		return append(out, '\f')
	case 'n':
		return append(out, '\n')
	case 'r':
		return append(out, '\r')
	case 't':
		return append(out, '\t')
	case 'u':
		ru, ok := r.readHex4()
		if !ok {
			return out
		}
		if utf16.IsSurrogate(ru) {
			ru2 := rune(utf8.RuneError)
			if r.hasLiteral(`\u`) {
				save := r.pos
				r.pos += 2
				if lo, ok := r.readHex4(); ok {
					ru2 = lo
				} else {
					return out
				}
				if dec := utf16.DecodeRune(ru, ru2); dec != utf8.RuneError {
					return utf8.AppendRune(out, dec)
				}
				r.pos = save
			}
			return utf8.AppendRune(out, utf8.RuneError)
		}
		return utf8.AppendRune(out, ru)
	}
	r.pos--
	r.fail("valid escape character")
	return out
}

func (r *Reader[S]) readHex4() (rune, bool) {
	if len(r.buf)-r.pos < 4 {
		r.pos = len(r.buf)
		r.fail("four hex digits")
		return 0, false
	}
	var v rune
	for i := 0; i < 4; i++ {
		c := r.buf[r.pos]
		switch {
		case '0' <= c && c <= '9':
			v = v<<4 | rune(c-'0')
		case 'a' <= c && c <= 'f':
			v = v<<4 | rune(c-'a'+10)
		case 'A' <= c && c <= 'F':
			v = v<<4 | rune(c-'A'+10)
		default:
			r.fail("hex digit")
			return 0, false
		}
		r.pos++
	}
	return v, true
}
