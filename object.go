package jsonfmt

import (
	"reflect"
	"slices"
	"strings"
)

// member is one JSON member of a struct, bound to the strategy for its type.
type member[S Symbol] struct {
	name      string
	index     []int
	omitEmpty bool
	s         strategy[S]
}

// objectStrategy writes the exported fields of a struct as a JSON object.
// Fields follow encoding/json conventions: a json tag renames a field or
// drops it with "-", ",omitempty" skips empty values, and promoted fields of
// embedded structs are flattened. Untagged names go through the naming policy.
type objectStrategy[S Symbol] struct {
	t         reflect.Type
	members   []member[S]
	byName    map[string]int
	recursive bool
}

func (r *Resolver[S]) deriveObject(t reflect.Type) strategy[S] {
	s := &objectStrategy[S]{
		t:         t,
		byName:    make(map[string]int),
		recursive: isRecursionCandidate(t),
	}
	depth := make(map[string]int)
	var tagged [][]int // embedded structs written as one named member
	for _, sf := range reflect.VisibleFields(t) {
		if slices.ContainsFunc(tagged, func(p []int) bool {
			return len(sf.Index) > len(p) && slices.Equal(sf.Index[:len(p)], p)
		}) {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if name == "" {
					// Promoted fields are listed on their own.
					continue
				}
				tagged = append(tagged, sf.Index)
			}
		}
		if !sf.IsExported() || !reachable(t, sf.Index) {
			continue
		}
		if name == "" {
			name = r.memberName(sf.Name)
		}
		if d, ok := depth[name]; ok {
			if d <= len(sf.Index) {
				continue
			}
			// A shallower field hides the deeper one.
			i := s.byName[name]
			s.members = slices.Delete(s.members, i, i+1)
			s.reindex()
		}
		depth[name] = len(sf.Index)
		s.byName[name] = len(s.members)
		s.members = append(s.members, member[S]{
			name:      name,
			index:     sf.Index,
			omitEmpty: hasOption(opts, "omitempty"),
			s:         r.lazy(sf.Type),
		})
	}
	return s
}

func (s *objectStrategy[S]) reindex() {
	clear(s.byName)
	for i, m := range s.members {
		s.byName[m.name] = i
	}
}

// reachable reports whether every embedded struct on the path to the field
// can be allocated. Fields promoted through unexported embedded pointers
// cannot be set.
func reachable(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		sf := t.Field(i)
		t = sf.Type
		if t.Kind() == reflect.Pointer {
			if !sf.IsExported() {
				return false
			}
			t = t.Elem()
		}
	}
	return true
}

func hasOption(opts, option string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == option {
			return true
		}
	}
	return false
}

func (s *objectStrategy[S]) serializeAny(w *Writer[S], v any) {
	if s.recursive && !w.Enter() {
		return
	}
	rv := reflect.ValueOf(v)
	w.WriteBeginObject()
	n := 0
	for _, m := range s.members {
		fv, err := rv.FieldByIndexErr(m.index)
		if err != nil || (m.omitEmpty && isEmptyValue(fv)) {
			continue
		}
		if n > 0 {
			w.WriteValueSeparator()
		}
		n++
		w.WriteName(m.name)
		m.s.serializeAny(w, fv.Interface())
		if w.err != nil {
			break
		}
	}
	w.WriteEndObject()
	if s.recursive {
		w.Leave()
	}
}

// deserializeAny reads an object into a new struct value. Unknown members
// are skipped and names match exactly first, then case-insensitively.
func (s *objectStrategy[S]) deserializeAny(r *Reader[S]) any {
	if r.ReadIsNull() {
		return zeroOf(s.t)
	}
	if s.recursive && !r.Enter() {
		return zeroOf(s.t)
	}
	if s.recursive {
		defer r.Leave()
	}
	out := reflect.New(s.t).Elem()
	r.ReadBeginObject()
	count := 0
	for !r.TryReadEndObjectOrValueSeparator(&count) {
		name := r.ReadName()
		m, ok := s.lookup(name)
		if !ok {
			r.SkipValue()
			continue
		}
		x := m.s.deserializeAny(r)
		if r.err != nil {
			break
		}
		fv := fieldAlloc(out, m.index)
		fv.Set(valueOf(fv.Type(), x))
	}
	if r.err != nil {
		return zeroOf(s.t)
	}
	return out.Interface()
}

func (s *objectStrategy[S]) lookup(name string) (*member[S], bool) {
	if i, ok := s.byName[name]; ok {
		return &s.members[i], true
	}
	for i := range s.members {
		if strings.EqualFold(s.members[i].name, name) {
			return &s.members[i], true
		}
	}
	return nil, false
}

// fieldAlloc is FieldByIndex that allocates nil embedded pointers.
func fieldAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// isEmptyValue matches the omitempty rule of encoding/json.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
