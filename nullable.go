package jsonfmt

// NullableFormatter encodes *T as null or as the pointed-to value.
type NullableFormatter[T any, S Symbol] struct {
	elem Formatter[T, S]
}

func NewNullableFormatter[T any, S Symbol](elem Formatter[T, S]) *NullableFormatter[T, S] {
	return &NullableFormatter[T, S]{elem: elem}
}

func (f *NullableFormatter[T, S]) Serialize(w *Writer[S], value *T) {
	if value == nil {
		w.WriteNull()
		return
	}
	f.elem.Serialize(w, *value)
}

func (f *NullableFormatter[T, S]) Deserialize(r *Reader[S]) *T {
	if r.ReadIsNull() {
		return nil
	}
	v := f.elem.Deserialize(r)
	if r.Err() != nil {
		return nil
	}
	return &v
}
