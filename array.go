package jsonfmt

import "reflect"

// initialScratch is the capacity of the temporary element buffer at the
// start of an array decode. It doubles whenever it fills up.
const initialScratch = 4

// ArrayFormatter encodes []T as a JSON array. When T is an interface type
// its element formatter is a RuntimeFormatter, so elements are dispatched on
// their concrete type; otherwise every element takes the static path.
type ArrayFormatter[T any, S Symbol] struct {
	elem      Formatter[T, S]
	recursive bool
	empty     []T
}

func NewArrayFormatter[T any, S Symbol](elem Formatter[T, S]) *ArrayFormatter[T, S] {
	return newArrayFormatter(elem, reflect.TypeFor[T]())
}

// newArrayFormatter takes the element type separately because derived
// formatters carry elements as any.
func newArrayFormatter[T any, S Symbol](elem Formatter[T, S], elemType reflect.Type) *ArrayFormatter[T, S] {
	return &ArrayFormatter[T, S]{
		elem:      elem,
		recursive: isRecursionCandidate(elemType),
		empty:     make([]T, 0),
	}
}

func (f *ArrayFormatter[T, S]) Serialize(w *Writer[S], value []T) {
	if value == nil {
		w.WriteNull()
		return
	}
	if f.recursive && !w.Enter() {
		return
	}
	w.WriteBeginArray()
	for i, v := range value {
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

// Deserialize returns nil for null, a shared empty slice for [], and
// otherwise a slice sized exactly to the number of elements.
func (f *ArrayFormatter[T, S]) Deserialize(r *Reader[S]) []T {
	if r.ReadIsNull() {
		return nil
	}
	if f.recursive && !r.Enter() {
		return nil
	}
	if f.recursive {
		defer r.Leave()
	}
	r.ReadBeginArray()

	buf := rentScratch[T](initialScratch)
	defer buf.release()

	count := 0
	for !r.TryReadEndArrayOrValueSeparator(&count) {
		buf.add(f.elem.Deserialize(r))
	}
	if r.err != nil {
		return nil
	}
	if count == 0 {
		return f.empty
	}
	out := make([]T, count)
	copy(out, buf.items)
	return out
}
