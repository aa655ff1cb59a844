package jsonfmt

import (
	"iter"
	"reflect"
)

// Dictionary adapts a dictionary type D with keys K and values V to
// DictionaryFormatter. Decoding always fills a writable map[K]V first.
type Dictionary[D any, K comparable, V any] struct {
	// All enumerates the pairs in the order they are written.
	All func(D) iter.Seq2[K, V]
	// IsNil reports whether the dictionary encodes as null. Optional.
	IsNil func(D) bool
	// New creates the writable map. Optional.
	New func() map[K]V
	// From converts the filled writable map to D.
	From func(map[K]V) D
}

// MapOf adapts a map type. Pairs are written in the order of their key text.
func MapOf[M ~map[K]V, K comparable, V any]() Dictionary[M, K, V] {
	return Dictionary[M, K, V]{
		All: func(m M) iter.Seq2[K, V] {
			return func(yield func(K, V) bool) {
				for _, k := range sortedKeys(m) {
					if !yield(k, m[k]) {
						return
					}
				}
			}
		},
		IsNil: func(m M) bool { return m == nil },
		From:  func(m map[K]V) M { return M(m) },
	}
}

// DictionaryFormatter encodes a dictionary as a JSON object. On decode the
// last of duplicate keys wins.
type DictionaryFormatter[D any, K comparable, V any, S Symbol] struct {
	keys      keyCodec[K, S]
	values    Formatter[V, S]
	adapter   Dictionary[D, K, V]
	recursive bool
}

func NewDictionaryFormatter[D any, K comparable, V any, S Symbol](key Formatter[K, S], value Formatter[V, S], adapter Dictionary[D, K, V]) *DictionaryFormatter[D, K, V, S] {
	return newDictionaryFormatter(key, value, adapter, reflect.TypeFor[K](), reflect.TypeFor[V]())
}

// NewMapFormatter is NewDictionaryFormatter for map[K]V.
func NewMapFormatter[K comparable, V any, S Symbol](key Formatter[K, S], value Formatter[V, S]) *DictionaryFormatter[map[K]V, K, V, S] {
	return NewDictionaryFormatter(key, value, MapOf[map[K]V]())
}

func newDictionaryFormatter[D any, K comparable, V any, S Symbol](key Formatter[K, S], value Formatter[V, S], adapter Dictionary[D, K, V], keyType, valueType reflect.Type) *DictionaryFormatter[D, K, V, S] {
	if adapter.New == nil {
		adapter.New = func() map[K]V { return make(map[K]V) }
	}
	return &DictionaryFormatter[D, K, V, S]{
		keys:      newKeyCodec(keyType, key),
		values:    value,
		adapter:   adapter,
		recursive: isRecursionCandidate(valueType),
	}
}

func (f *DictionaryFormatter[D, K, V, S]) Serialize(w *Writer[S], value D) {
	if f.adapter.IsNil != nil && f.adapter.IsNil(value) {
		w.WriteNull()
		return
	}
	if f.recursive && !w.Enter() {
		return
	}
	w.WriteBeginObject()
	i := 0
	for k, v := range f.adapter.All(value) {
		if i > 0 {
			w.WriteValueSeparator()
		}
		i++
		f.keys.write(w, k)
		f.values.Serialize(w, v)
		if w.err != nil {
			break
		}
	}
	w.WriteEndObject()
	if f.recursive {
		w.Leave()
	}
}

// Deserialize returns the zero D for null.
func (f *DictionaryFormatter[D, K, V, S]) Deserialize(r *Reader[S]) D {
	var zero D
	if r.ReadIsNull() {
		return zero
	}
	if f.recursive && !r.Enter() {
		return zero
	}
	if f.recursive {
		defer r.Leave()
	}
	r.ReadBeginObject()
	m := f.adapter.New()
	count := 0
	for !r.TryReadEndObjectOrValueSeparator(&count) {
		k := f.keys.read(r)
		v := f.values.Deserialize(r)
		if r.err != nil {
			break
		}
		m[k] = v
	}
	if r.err != nil {
		return zero
	}
	return f.adapter.From(m)
}
