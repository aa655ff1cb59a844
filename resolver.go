package jsonfmt

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// NamingPolicy maps a Go field name to a JSON member name.
// CamelCase and SnakeCase are ready-made policies.
type NamingPolicy func(name string) string

// ResolverOptions configures a Resolver. A nil *ResolverOptions means defaults.
type ResolverOptions struct {
	// NamingPolicy renames struct fields that carry no json tag name.
	// Nil keeps Go field names unchanged.
	NamingPolicy NamingPolicy
	// Logger receives diagnostics about strategy derivation. Nil discards them.
	Logger *slog.Logger
}

// Resolver supplies the formatter for a type over one symbol kind. Formatters
// are created at most once per type (concurrent first use may build twice
// and keep the last), are never evicted, and are safe to share.
type Resolver[S Symbol] struct {
	formatters *xsync.Map[reflect.Type, any] // Formatter[T, S] keyed by T
	strategies *xsync.Map[reflect.Type, strategy[S]]
	naming     NamingPolicy
	logger     *slog.Logger
}

// NewResolver creates a Resolver with the built-in formatters registered.
func NewResolver[S Symbol](options *ResolverOptions) *Resolver[S] {
	if options == nil {
		options = &ResolverOptions{}
	}
	r := &Resolver[S]{
		formatters: xsync.NewMap[reflect.Type, any](),
		strategies: xsync.NewMap[reflect.Type, strategy[S]](),
		naming:     options.NamingPolicy,
		logger:     options.Logger,
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	registerBuiltins(r)
	return r
}

// defaultResolvers holds one default Resolver per symbol type.
var defaultResolvers = xsync.NewMap[reflect.Type, any]()

// DefaultResolver returns the process-wide Resolver for S used by Marshal,
// Unmarshal and their UTF-16 counterparts.
func DefaultResolver[S Symbol]() *Resolver[S] {
	t := reflect.TypeFor[S]()
	if r, ok := defaultResolvers.Load(t); ok {
		return r.(*Resolver[S])
	}
	r, _ := defaultResolvers.LoadOrStore(t, NewResolver[S](nil))
	return r.(*Resolver[S])
}

// Register makes f the formatter for T, replacing any earlier one.
// Register before first use: values already dispatched keep their formatter.
func Register[T any, S Symbol](r *Resolver[S], f Formatter[T, S]) {
	t := reflect.TypeFor[T]()
	r.formatters.Store(t, f)
	r.strategies.Store(t, typed[T, S]{f})
}

// RegisterSlice registers an ArrayFormatter for []T.
func RegisterSlice[T any, S Symbol](r *Resolver[S]) {
	Register[[]T, S](r, NewArrayFormatter(Resolve[T](r)))
}

// RegisterMap registers a DictionaryFormatter for map[K]V.
func RegisterMap[K comparable, V any, S Symbol](r *Resolver[S]) {
	Register[map[K]V, S](r, NewMapFormatter(Resolve[K](r), Resolve[V](r)))
}

// RegisterNullable registers a NullableFormatter for *T.
func RegisterNullable[T any, S Symbol](r *Resolver[S]) {
	Register[*T, S](r, NewNullableFormatter(Resolve[T](r)))
}

// Resolve returns the formatter for T. Registered formatters are returned as
// is; interface types get a RuntimeFormatter; anything else is derived from
// its reflected shape on first use.
func Resolve[T any, S Symbol](r *Resolver[S]) Formatter[T, S] {
	t := reflect.TypeFor[T]()
	if f, ok := r.formatters.Load(t); ok {
		return f.(Formatter[T, S])
	}
	var f Formatter[T, S]
	if t.Kind() == reflect.Interface {
		f = NewRuntimeFormatter[T](r)
	} else {
		f = erased[T, S]{r.strategyFor(t)}
	}
	actual, _ := r.formatters.LoadOrStore(t, f)
	return actual.(Formatter[T, S])
}

// strategyFor returns the dispatch strategy for t, deriving and caching it
// on first use. Concurrent first use may derive twice; the last store wins.
func (r *Resolver[S]) strategyFor(t reflect.Type) strategy[S] {
	if s, ok := r.strategies.Load(t); ok {
		return s
	}
	s := r.derive(t)
	r.strategies.Store(t, s)
	return s
}

// lazy defers strategy lookup to first use so recursive types can be derived.
func (r *Resolver[S]) lazy(t reflect.Type) strategy[S] {
	return lazyStrategy[S]{resolve: sync.OnceValue(func() strategy[S] { return r.strategyFor(t) })}
}

type lazyStrategy[S Symbol] struct {
	resolve func() strategy[S]
}

func (l lazyStrategy[S]) serializeAny(w *Writer[S], v any) { l.resolve().serializeAny(w, v) }
func (l lazyStrategy[S]) deserializeAny(r *Reader[S]) any  { return l.resolve().deserializeAny(r) }

func (r *Resolver[S]) memberName(field string) string {
	if r.naming == nil {
		return field
	}
	return r.naming(field)
}

func registerBuiltins[S Symbol](r *Resolver[S]) {
	registerPrimitive[bool, S](r, BoolFormatter[S]{})
	registerPrimitive[int, S](r, IntFormatter[int, S]{})
	registerPrimitive[int8, S](r, IntFormatter[int8, S]{})
	registerPrimitive[int16, S](r, IntFormatter[int16, S]{})
	registerPrimitive[int32, S](r, IntFormatter[int32, S]{})
	registerPrimitive[int64, S](r, IntFormatter[int64, S]{})
	registerPrimitive[uint, S](r, UintFormatter[uint, S]{})
	registerPrimitive[uint8, S](r, UintFormatter[uint8, S]{})
	registerPrimitive[uint16, S](r, UintFormatter[uint16, S]{})
	registerPrimitive[uint32, S](r, UintFormatter[uint32, S]{})
	registerPrimitive[uint64, S](r, UintFormatter[uint64, S]{})
	registerPrimitive[uintptr, S](r, UintFormatter[uintptr, S]{})
	registerPrimitive[float32, S](r, FloatFormatter[float32, S]{})
	registerPrimitive[float64, S](r, FloatFormatter[float64, S]{})
	registerPrimitive[string, S](r, StringFormatter[S]{})
	// []byte is base64 text, not an array of numbers.
	Register[[]byte, S](r, BytesFormatter[S]{})

	Register[any, S](r, NewRuntimeFormatter[any](r))
	RegisterSlice[any](r)
	RegisterMap[string, any](r)
	RegisterMap[string, string](r)
}

func registerPrimitive[T any, S Symbol](r *Resolver[S], f Formatter[T, S]) {
	Register(r, f)
	Register[[]T, S](r, NewArrayFormatter(f))
	Register[*T, S](r, NewNullableFormatter(f))
}
