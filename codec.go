// Package jsonfmt encodes and decodes JSON through stateless, per-type
// formatters that are written once against a Symbol kind and instantiated for
// both UTF-8 bytes and UTF-16 code units, producing the same text either way.
package jsonfmt

import (
	"fmt"
	"reflect"
)

// Formatter encodes and decodes values of type T over symbols of kind S.
// Implementations are immutable and safe for concurrent use. Errors are
// reported through the Writer/Reader, which latch the first one.
type Formatter[T any, S Symbol] interface {
	// Serialize writes exactly one JSON value.
	Serialize(w *Writer[S], value T)
	// Deserialize reads exactly one JSON value.
	Deserialize(r *Reader[S]) T
}

// FormatterFuncs builds a Formatter from a pair of functions.
type FormatterFuncs[T any, S Symbol] struct {
	SerializeFunc   func(w *Writer[S], value T)
	DeserializeFunc func(r *Reader[S]) T
}

var _ Formatter[int, Utf8] = FormatterFuncs[int, Utf8]{}

func (f FormatterFuncs[T, S]) Serialize(w *Writer[S], value T) { f.SerializeFunc(w, value) }
func (f FormatterFuncs[T, S]) Deserialize(r *Reader[S]) T      { return f.DeserializeFunc(r) }

// strategy is the type-erased form of a formatter: the dispatch entry used
// wherever the concrete type is only known at run time.
type strategy[S Symbol] interface {
	serializeAny(w *Writer[S], v any)
	// deserializeAny returns a value of exactly the strategy's type, or nil
	// for nil interfaces.
	deserializeAny(r *Reader[S]) any
}

// typed exposes a statically typed formatter as a strategy.
type typed[T any, S Symbol] struct {
	f Formatter[T, S]
}

func (s typed[T, S]) serializeAny(w *Writer[S], v any) {
	value, _ := v.(T)
	s.f.Serialize(w, value)
}

func (s typed[T, S]) deserializeAny(r *Reader[S]) any {
	return s.f.Deserialize(r)
}

// erased exposes a strategy as a statically typed formatter.
type erased[T any, S Symbol] struct {
	s strategy[S]
}

func (f erased[T, S]) Serialize(w *Writer[S], value T) {
	f.s.serializeAny(w, value)
}

func (f erased[T, S]) Deserialize(r *Reader[S]) T {
	value, _ := f.s.deserializeAny(r).(T)
	return value
}

// unsupported is the strategy for types that have no derivable formatter.
type unsupported[S Symbol] struct {
	err error
}

func newUnsupported[S Symbol](t reflect.Type) unsupported[S] {
	return unsupported[S]{err: fmt.Errorf("%w: type %s", ErrNotSupported, t)}
}

func (s unsupported[S]) serializeAny(w *Writer[S], _ any) { w.SetError(s.err) }

func (s unsupported[S]) deserializeAny(r *Reader[S]) any {
	r.SetError(s.err)
	return nil
}
