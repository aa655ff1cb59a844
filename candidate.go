package jsonfmt

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// candidateCache avoids re-walking struct fields for every formatter built
// over the same element type.
var candidateCache = xsync.NewMap[reflect.Type, bool]()

// isRecursionCandidate reports whether values of t may take part in a
// reference cycle. Leaf kinds, and arrays and structs built only from leaf
// kinds, can not; everything reachable through a pointer, slice, map or
// interface can.
func isRecursionCandidate(t reflect.Type) bool {
	if v, ok := candidateCache.Load(t); ok {
		return v
	}
	var v bool
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		v = false
	case reflect.Array:
		v = isRecursionCandidate(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if isRecursionCandidate(t.Field(i).Type) {
				v = true
				break
			}
		}
	default:
		v = true
	}
	candidateCache.Store(t, v)
	return v
}
