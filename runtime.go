package jsonfmt

import (
	"fmt"
	"reflect"
)

// openType is the literal open object type. A value of exactly this type
// carries no structure, so it is written as an empty object.
var openType = reflect.TypeFor[struct{}]()

// RuntimeFormatter encodes values of an interface type T by dispatching on
// their concrete type. Dispatch strategies are cached by the resolver and
// are safe to build concurrently on first use.
type RuntimeFormatter[T any, S Symbol] struct {
	resolver *Resolver[S]
	iface    reflect.Type
}

func NewRuntimeFormatter[T any, S Symbol](r *Resolver[S]) *RuntimeFormatter[T, S] {
	return &RuntimeFormatter[T, S]{resolver: r, iface: reflect.TypeFor[T]()}
}

func (f *RuntimeFormatter[T, S]) Serialize(w *Writer[S], value T) {
	f.serializeAny(w, value)
}

func (f *RuntimeFormatter[T, S]) serializeAny(w *Writer[S], value any) {
	if value == nil {
		w.WriteNull()
		return
	}
	t := reflect.TypeOf(value)
	if t == openType {
		w.WriteBeginObject()
		w.WriteEndObject()
		return
	}
	f.resolver.dispatch(t).serializeAny(w, value)
}

// Deserialize reads the value in its dynamic form (see Reader.ReadAny) and
// fails with ErrNotSupported when that form does not implement T.
func (f *RuntimeFormatter[T, S]) Deserialize(r *Reader[S]) T {
	var zero T
	v := r.ReadAny()
	if r.Err() != nil || v == nil {
		return zero
	}
	out, ok := v.(T)
	if !ok {
		r.SetError(fmt.Errorf("%w: %T does not implement %s at offset %d", ErrNotSupported, v, f.iface, r.Pos()))
		return zero
	}
	return out
}

// dispatch is strategyFor with a debug record on cache misses.
func (r *Resolver[S]) dispatch(t reflect.Type) strategy[S] {
	if s, ok := r.strategies.Load(t); ok {
		return s
	}
	r.logger.Debug("jsonfmt: runtime dispatch miss", "type", t.String())
	return r.strategyFor(t)
}
