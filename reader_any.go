package jsonfmt

// ReadAny reads the next value into its dynamic form: map[string]any for
// objects, []any for arrays, float64 for numbers, string, bool or nil.
// Duplicate member names keep the last value.
func (r *Reader[S]) ReadAny() any {
	switch r.PeekKind() {
	case '{':
		if !r.Enter() {
			return nil
		}
		defer r.Leave()
		m := make(map[string]any)
		r.ReadBeginObject()
		count := 0
		for !r.TryReadEndObjectOrValueSeparator(&count) {
			name := r.ReadName()
			m[name] = r.ReadAny()
		}
		if r.err != nil {
			return nil
		}
		return m
	case '[':
		if !r.Enter() {
			return nil
		}
		defer r.Leave()
		a := make([]any, 0)
		r.ReadBeginArray()
		count := 0
		for !r.TryReadEndArrayOrValueSeparator(&count) {
			a = append(a, r.ReadAny())
		}
		if r.err != nil {
			return nil
		}
		return a
	case '"':
		return r.ReadString()
	case 't', 'f':
		return r.ReadBool()
	case 'n':
		if r.ReadIsNull() {
			return nil
		}
		r.fail("null")
		return nil
	case 0:
		r.fail("value")
		return nil
	}
	v := r.ReadFloat(64)
	if r.err != nil {
		return nil
	}
	return v
}

// SkipValue consumes the next value without materializing it.
func (r *Reader[S]) SkipValue() {
	switch r.PeekKind() {
	case '{':
		if !r.Enter() {
			return
		}
		r.ReadBeginObject()
		count := 0
		for !r.TryReadEndObjectOrValueSeparator(&count) {
			r.skipString()
			r.ReadNameSeparator()
			r.SkipValue()
		}
		r.Leave()
	case '[':
		if !r.Enter() {
			return
		}
		r.ReadBeginArray()
		count := 0
		for !r.TryReadEndArrayOrValueSeparator(&count) {
			r.SkipValue()
		}
		r.Leave()
	case '"':
		r.skipString()
	case 't', 'f':
		r.ReadBool()
	case 'n':
		if !r.ReadIsNull() {
			r.fail("null")
		}
	case 0:
		r.fail("value")
	default:
		r.ReadFloat(64)
	}
}

func (r *Reader[S]) skipString() {
	r.expect('"')
	for r.err == nil {
		if r.pos >= len(r.buf) {
			r.fail("closing quote")
			return
		}
		switch c := r.buf[r.pos]; {
		case c == '"':
			r.pos++
			return
		case c == '\\':
			r.pos += 2
		case c < 0x20:
			r.fail("unescaped string content")
		default:
			r.pos++
		}
	}
}
