package jsonfmt

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
)

// baseTypes are the registered types that named types of each kind convert to.
var baseTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:    reflect.TypeFor[bool](),
	reflect.Int:     reflect.TypeFor[int](),
	reflect.Int8:    reflect.TypeFor[int8](),
	reflect.Int16:   reflect.TypeFor[int16](),
	reflect.Int32:   reflect.TypeFor[int32](),
	reflect.Int64:   reflect.TypeFor[int64](),
	reflect.Uint:    reflect.TypeFor[uint](),
	reflect.Uint8:   reflect.TypeFor[uint8](),
	reflect.Uint16:  reflect.TypeFor[uint16](),
	reflect.Uint32:  reflect.TypeFor[uint32](),
	reflect.Uint64:  reflect.TypeFor[uint64](),
	reflect.Uintptr: reflect.TypeFor[uintptr](),
	reflect.Float32: reflect.TypeFor[float32](),
	reflect.Float64: reflect.TypeFor[float64](),
	reflect.String:  reflect.TypeFor[string](),
}

var bytesType = reflect.TypeFor[[]byte]()

// derive builds the strategy for a type nobody registered, from its kind.
func (r *Resolver[S]) derive(t reflect.Type) strategy[S] {
	var s strategy[S]
	switch t.Kind() {
	case reflect.Interface:
		s = interfaceStrategy[S]{runtime: NewRuntimeFormatter[any](r), t: t}
	case reflect.Pointer:
		s = pointerStrategy[S]{elem: r.lazy(t.Elem()), t: t}
	case reflect.Slice:
		if t.Elem() == bytesType.Elem() {
			s = r.convert(t, bytesType)
		} else {
			s = r.deriveSequence(t)
		}
	case reflect.Array:
		s = r.deriveSequence(t)
	case reflect.Map:
		s = r.deriveMap(t)
	case reflect.Struct:
		s = r.deriveObject(t)
	default:
		if base, ok := baseTypes[t.Kind()]; ok && base != t {
			s = r.convert(t, base)
		}
	}
	if s == nil {
		r.logger.Warn("jsonfmt: no formatter for type", "type", t.String(), "kind", t.Kind().String())
		return newUnsupported[S](t)
	}
	r.logger.Debug("jsonfmt: derived strategy", "type", t.String(), "kind", t.Kind().String())
	return s
}

// valueOf returns x as a value of type t; nil becomes the zero value.
func valueOf(t reflect.Type, x any) reflect.Value {
	if x == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(x)
}

// zeroOf returns the zero value of t as any.
func zeroOf(t reflect.Type) any {
	return reflect.Zero(t).Interface()
}

// convertStrategy writes a named type through the formatter of the
// registered type it converts to.
type convertStrategy[S Symbol] struct {
	base     strategy[S]
	t, baseT reflect.Type
}

func (r *Resolver[S]) convert(t, base reflect.Type) strategy[S] {
	return convertStrategy[S]{base: r.strategyFor(base), t: t, baseT: base}
}

func (s convertStrategy[S]) serializeAny(w *Writer[S], v any) {
	s.base.serializeAny(w, reflect.ValueOf(v).Convert(s.baseT).Interface())
}

func (s convertStrategy[S]) deserializeAny(r *Reader[S]) any {
	x := s.base.deserializeAny(r)
	if r.err != nil {
		return zeroOf(s.t)
	}
	return valueOf(s.baseT, x).Convert(s.t).Interface()
}

type pointerStrategy[S Symbol] struct {
	elem strategy[S]
	t    reflect.Type
}

func (s pointerStrategy[S]) serializeAny(w *Writer[S], v any) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.IsNil() {
		w.WriteNull()
		return
	}
	s.elem.serializeAny(w, rv.Elem().Interface())
}

func (s pointerStrategy[S]) deserializeAny(r *Reader[S]) any {
	if r.ReadIsNull() {
		return zeroOf(s.t)
	}
	x := s.elem.deserializeAny(r)
	if r.err != nil {
		return zeroOf(s.t)
	}
	p := reflect.New(s.t.Elem())
	p.Elem().Set(valueOf(s.t.Elem(), x))
	return p.Interface()
}

// interfaceStrategy dispatches interface-typed members on their dynamic type.
type interfaceStrategy[S Symbol] struct {
	runtime *RuntimeFormatter[any, S]
	t       reflect.Type
}

func (s interfaceStrategy[S]) serializeAny(w *Writer[S], v any) {
	s.runtime.serializeAny(w, v)
}

func (s interfaceStrategy[S]) deserializeAny(r *Reader[S]) any {
	x := r.ReadAny()
	if r.err != nil || x == nil {
		return nil
	}
	if !reflect.TypeOf(x).AssignableTo(s.t) {
		r.SetError(fmt.Errorf("%w: %T does not implement %s at offset %d", ErrNotSupported, x, s.t, r.Pos()))
		return nil
	}
	return x
}

// formatterStrategy adapts a formatter over reflect.Value to a strategy.
type formatterStrategy[S Symbol] struct {
	f Formatter[reflect.Value, S]
	t reflect.Type
}

func (s formatterStrategy[S]) serializeAny(w *Writer[S], v any) {
	s.f.Serialize(w, reflect.ValueOf(v))
}

func (s formatterStrategy[S]) deserializeAny(r *Reader[S]) any {
	v := s.f.Deserialize(r)
	if r.err != nil || !v.IsValid() {
		return zeroOf(s.t)
	}
	return v.Interface()
}

// deriveSequence formats slices and fixed-size arrays through an
// EnumerableFormatter over reflect.Value.
func (r *Resolver[S]) deriveSequence(t reflect.Type) strategy[S] {
	elemT := t.Elem()
	elem := erased[any, S]{r.lazy(elemT)}
	var adapter Enumerable[reflect.Value, any]
	if t.Kind() == reflect.Array {
		adapter = ArrayOf(t)
	} else {
		empty := reflect.MakeSlice(t, 0, 0)
		adapter = Enumerable[reflect.Value, any]{
			All:   values,
			IsNil: func(v reflect.Value) bool { return v.IsNil() },
			From: func(items []any) reflect.Value {
				if len(items) == 0 {
					return empty
				}
				s := reflect.MakeSlice(t, len(items), len(items))
				for i, x := range items {
					s.Index(i).Set(valueOf(elemT, x))
				}
				return s
			},
		}
	}
	return formatterStrategy[S]{f: newEnumerableFormatter[reflect.Value, any, S](elem, adapter, elemT), t: t}
}

func values(v reflect.Value) iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := range v.Len() {
			if !yield(v.Index(i).Interface()) {
				return
			}
		}
	}
}

// ArrayOf adapts the fixed-size array type t. Missing trailing elements
// decode as zero values and extra ones are dropped.
func ArrayOf(t reflect.Type) Enumerable[reflect.Value, any] {
	return Enumerable[reflect.Value, any]{
		All: values,
		From: func(items []any) reflect.Value {
			a := reflect.New(t).Elem()
			for i := range min(len(items), t.Len()) {
				a.Index(i).Set(valueOf(t.Elem(), items[i]))
			}
			return a
		},
	}
}

// deriveMap formats maps with string or integer keys through a
// DictionaryFormatter over reflect.Value.
func (r *Resolver[S]) deriveMap(t reflect.Type) strategy[S] {
	keyT, valueT := t.Key(), t.Elem()
	switch keyT.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
	default:
		return nil
	}
	adapter := Dictionary[reflect.Value, any, any]{
		All: func(m reflect.Value) iter.Seq2[any, any] {
			return func(yield func(any, any) bool) {
				keys := m.MapKeys()
				slices.SortFunc(keys, func(a, b reflect.Value) int {
					return strings.Compare(keyString(a), keyString(b))
				})
				for _, k := range keys {
					if !yield(k.Interface(), m.MapIndex(k).Interface()) {
						return
					}
				}
			}
		},
		IsNil: func(m reflect.Value) bool { return m.IsNil() },
		From: func(items map[any]any) reflect.Value {
			m := reflect.MakeMapWithSize(t, len(items))
			for k, v := range items {
				m.SetMapIndex(valueOf(keyT, k), valueOf(valueT, v))
			}
			return m
		},
	}
	key := erased[any, S]{r.strategyFor(keyT)}
	value := erased[any, S]{r.lazy(valueT)}
	f := newDictionaryFormatter[reflect.Value, any, any, S](key, value, adapter, keyT, valueT)
	return formatterStrategy[S]{f: f, t: t}
}
