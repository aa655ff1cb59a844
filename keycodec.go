package jsonfmt

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// keyCodec writes and reads one member name, including the name separator.
// It is selected once per key type.
type keyCodec[K any, S Symbol] struct {
	write func(w *Writer[S], key K)
	read  func(r *Reader[S]) K
}

// newKeyCodec picks the key encoding for keyType. Integer keys are written
// through the key formatter inside quotes, since JSON member names must be
// strings; string keys already produce a valid JSON string.
func newKeyCodec[K any, S Symbol](keyType reflect.Type, f Formatter[K, S]) keyCodec[K, S] {
	switch keyType.Kind() {
	case reflect.String:
		return keyCodec[K, S]{
			write: func(w *Writer[S], key K) {
				f.Serialize(w, key)
				w.WriteNameSeparator()
			},
			read: func(r *Reader[S]) K {
				key := f.Deserialize(r)
				r.ReadNameSeparator()
				return key
			},
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return keyCodec[K, S]{
			write: func(w *Writer[S], key K) {
				w.WriteQuote()
				f.Serialize(w, key)
				w.WriteQuote()
				w.WriteNameSeparator()
			},
			read: func(r *Reader[S]) K {
				r.ReadQuote()
				r.expectDigitStart()
				key := f.Deserialize(r)
				r.expectAdjacent('"')
				r.ReadNameSeparator()
				return key
			},
		}
	}
	err := fmt.Errorf("%w: map key type %s", ErrNotSupported, keyType)
	return keyCodec[K, S]{
		write: func(w *Writer[S], _ K) { w.SetError(err) },
		read: func(r *Reader[S]) K {
			var zero K
			r.SetError(err)
			return zero
		},
	}
}

// keyString is the text a key is emitted as, used for ordering.
func keyString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	}
	return fmt.Sprint(v.Interface())
}

type keyed[K any] struct {
	key  K
	text string
}

// sortedKeys orders map keys by their emitted text, which is the order
// encoding/json uses, so output is deterministic.
func sortedKeys[K comparable, V any](m map[K]V) []K {
	if len(m) < 2 {
		return slices.Collect(maps.Keys(m))
	}
	entries := make([]keyed[K], 0, len(m))
	for k := range m {
		entries = append(entries, keyed[K]{key: k, text: keyString(reflect.ValueOf(k))})
	}
	slices.SortFunc(entries, func(a, b keyed[K]) int { return strings.Compare(a.text, b.text) })
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}
