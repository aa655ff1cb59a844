package jsonfmt

import (
	"iter"
	"reflect"
	"slices"
)

// Enumerable adapts a collection type C with elements T to EnumerableFormatter.
type Enumerable[C, T any] struct {
	// All enumerates the elements in order.
	All func(C) iter.Seq[T]
	// IsNil reports whether the collection encodes as null. Optional.
	IsNil func(C) bool
	// From builds the final collection from the decoded elements. The slice
	// may be a shared empty instance and must not be retained when empty.
	From func(items []T) C
}

// SliceOf adapts a named slice type.
func SliceOf[C ~[]T, T any]() Enumerable[C, T] {
	return Enumerable[C, T]{
		All:   func(c C) iter.Seq[T] { return slices.Values(c) },
		IsNil: func(c C) bool { return c == nil },
		From:  func(items []T) C { return C(items) },
	}
}

// SeqOf adapts a read-only collection that is built from a mutable slice.
func SeqOf[C, T any](all func(C) iter.Seq[T], from func(items []T) C) Enumerable[C, T] {
	return Enumerable[C, T]{All: all, From: from}
}

// EnumerableFormatter encodes any enumerable collection as a JSON array.
// Decoding goes through an ArrayFormatter and converts the result with From.
type EnumerableFormatter[C, T any, S Symbol] struct {
	elem      Formatter[T, S]
	array     *ArrayFormatter[T, S]
	adapter   Enumerable[C, T]
	recursive bool
}

func NewEnumerableFormatter[C, T any, S Symbol](elem Formatter[T, S], adapter Enumerable[C, T]) *EnumerableFormatter[C, T, S] {
	return newEnumerableFormatter(elem, adapter, reflect.TypeFor[T]())
}

func newEnumerableFormatter[C, T any, S Symbol](elem Formatter[T, S], adapter Enumerable[C, T], elemType reflect.Type) *EnumerableFormatter[C, T, S] {
	return &EnumerableFormatter[C, T, S]{
		elem:      elem,
		array:     newArrayFormatter(elem, elemType),
		adapter:   adapter,
		recursive: isRecursionCandidate(elemType),
	}
}

func (f *EnumerableFormatter[C, T, S]) Serialize(w *Writer[S], value C) {
	if f.adapter.IsNil != nil && f.adapter.IsNil(value) {
		w.WriteNull()
		return
	}
	if f.recursive && !w.Enter() {
		return
	}
	next, stop := iter.Pull(f.adapter.All(value))
	defer stop()

	w.WriteBeginArray()
	for i := 0; ; i++ {
		v, ok := next()
		if !ok {
			break
		}
		if i > 0 {
			w.WriteValueSeparator()
		}
		f.elem.Serialize(w, v)
		if w.err != nil {
			break
		}
	}
	w.WriteEndArray()
	if f.recursive {
		w.Leave()
	}
}

// Deserialize returns the zero C for null.
func (f *EnumerableFormatter[C, T, S]) Deserialize(r *Reader[S]) C {
	var zero C
	if r.ReadIsNull() {
		return zero
	}
	items := f.array.Deserialize(r)
	if r.err != nil {
		return zero
	}
	return f.adapter.From(items)
}
