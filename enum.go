package jsonfmt

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/exp/constraints"
)

// EnumMember is one declared value of an enum type.
type EnumMember[E constraints.Integer] struct {
	Name  string
	Value E
}

// NewIntegerEnumFormatter writes an enum as its underlying number. The
// read/write pair is chosen from the underlying kind of E once, here.
func NewIntegerEnumFormatter[E constraints.Integer, S Symbol]() Formatter[E, S] {
	bits := bitSize[E]()
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FormatterFuncs[E, S]{
			SerializeFunc:   func(w *Writer[S], v E) { w.WriteInt64(int64(v)) },
			DeserializeFunc: func(r *Reader[S]) E { return E(r.ReadInt64(bits)) },
		}
	default:
		return FormatterFuncs[E, S]{
			SerializeFunc:   func(w *Writer[S], v E) { w.WriteUint64(uint64(v)) },
			DeserializeFunc: func(r *Reader[S]) E { return E(r.ReadUint64(bits)) },
		}
	}
}

// enumTable maps between names and values. When two members share a value
// the first declared name is the one written.
type enumTable[E constraints.Integer] struct {
	members []EnumMember[E]
	names   map[E]string
	values  map[string]E
	typ     reflect.Type
}

func newEnumTable[E constraints.Integer](members []EnumMember[E]) *enumTable[E] {
	t := &enumTable[E]{
		members: members,
		names:   make(map[E]string, len(members)),
		values:  make(map[string]E, len(members)),
		typ:     reflect.TypeFor[E](),
	}
	for _, m := range members {
		if _, ok := t.names[m.Value]; !ok {
			t.names[m.Value] = m.Name
		}
		t.values[m.Name] = m.Value
	}
	return t
}

func (t *enumTable[E]) invalidValue(v E) error {
	return fmt.Errorf("%w: %d is not a member of %s", ErrInvalidEnumValue, v, t.typ)
}

func (t *enumTable[E]) invalidName(name string, pos int) error {
	return fmt.Errorf("%w: %q is not a member of %s at offset %d", ErrInvalidEnumValue, name, t.typ, pos)
}

// StringEnumFormatter writes an enum as the quoted name of its member.
type StringEnumFormatter[E constraints.Integer, S Symbol] struct {
	table *enumTable[E]
}

func NewStringEnumFormatter[E constraints.Integer, S Symbol](members ...EnumMember[E]) *StringEnumFormatter[E, S] {
	return &StringEnumFormatter[E, S]{table: newEnumTable(members)}
}

func (f *StringEnumFormatter[E, S]) Serialize(w *Writer[S], v E) {
	name, ok := f.table.names[v]
	if !ok {
		w.SetError(f.table.invalidValue(v))
		return
	}
	w.WriteString(name)
}

func (f *StringEnumFormatter[E, S]) Deserialize(r *Reader[S]) E {
	name := r.ReadString()
	if r.Err() != nil {
		return 0
	}
	v, ok := f.table.values[name]
	if !ok {
		r.SetError(f.table.invalidName(name, r.Pos()))
		return 0
	}
	return v
}

// FlagsEnumFormatter writes a bit-flag enum as one quoted string of member
// names joined by ", ", in declaration order.
type FlagsEnumFormatter[E constraints.Integer, S Symbol] struct {
	table *enumTable[E]
}

func NewFlagsEnumFormatter[E constraints.Integer, S Symbol](members ...EnumMember[E]) *FlagsEnumFormatter[E, S] {
	return &FlagsEnumFormatter[E, S]{table: newEnumTable(members)}
}

// Format returns the text written for v. A zero v is the declared zero
// member's name, or empty when there is none. Bits that no member covers
// are an error.
func (f *FlagsEnumFormatter[E, S]) Format(v E) (string, error) {
	if v == 0 {
		return f.table.names[0], nil
	}
	var sb strings.Builder
	var covered E
	for _, m := range f.table.members {
		if m.Value == 0 || v&m.Value != m.Value {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Name)
		covered |= m.Value
	}
	if covered != v {
		return "", f.table.invalidValue(v)
	}
	return sb.String(), nil
}

func (f *FlagsEnumFormatter[E, S]) Serialize(w *Writer[S], v E) {
	s, err := f.Format(v)
	if err != nil {
		w.SetError(err)
		return
	}
	w.WriteString(s)
}

func (f *FlagsEnumFormatter[E, S]) Deserialize(r *Reader[S]) E {
	s := r.ReadString()
	if r.Err() != nil {
		return 0
	}
	var v E
	if strings.TrimSpace(s) == "" {
		return v
	}
	for token := range strings.SplitSeq(s, ",") {
		name := strings.TrimSpace(token)
		if name == "" {
			r.SetError(fmt.Errorf("%w: empty flag name in %q at offset %d", ErrInvalidEnumValue, s, r.Pos()))
			return 0
		}
		m, ok := f.table.values[name]
		if !ok {
			r.SetError(f.table.invalidName(name, r.Pos()))
			return 0
		}
		v |= m
	}
	return v
}
