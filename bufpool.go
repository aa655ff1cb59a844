package jsonfmt

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// bytesBufPool reuses buffers for draining io.Readers in Decode.
// We pool *bytes.Buffer because they are easily reset and resized.
var bytesBufPool = sync.Pool{
	New: func() any {
		// A 4KB default is chosen to avoid re-allocations for common documents.
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// scratchPools holds one sync.Pool of element buffers per element type.
var scratchPools = xsync.NewMap[reflect.Type, *sync.Pool]()

// maxPooledScratch bounds the capacity of buffers returned to a pool so one
// huge decode does not pin memory for the process lifetime.
const maxPooledScratch = 1 << 16

func scratchPool[T any]() *sync.Pool {
	t := reflect.TypeFor[T]()
	if p, ok := scratchPools.Load(t); ok {
		return p
	}
	p, _ := scratchPools.LoadOrStore(t, &sync.Pool{})
	return p
}

// scratch is a growable temporary buffer rented for the duration of one
// decode call. It must be released on every exit path.
type scratch[T any] struct {
	items []T
	pool  *sync.Pool
}

// rentScratch returns an empty buffer with at least the given capacity.
func rentScratch[T any](capacity int) *scratch[T] {
	pool := scratchPool[T]()
	if v := pool.Get(); v != nil {
		b := v.(*[]T)
		if cap(*b) >= capacity {
			return &scratch[T]{items: (*b)[:0], pool: pool}
		}
		pool.Put(b)
	}
	return &scratch[T]{items: make([]T, 0, capacity), pool: pool}
}

// add appends v, doubling the capacity through the pool when full.
func (s *scratch[T]) add(v T) {
	if len(s.items) == cap(s.items) {
		grown := rentScratch[T](2 * cap(s.items))
		grown.items = append(grown.items, s.items...)
		s.put()
		s.items = grown.items
	}
	s.items = append(s.items, v)
}

// release clears the buffer so pooled memory holds no references and
// returns it to the pool.
func (s *scratch[T]) release() {
	s.put()
	s.items = nil
}

func (s *scratch[T]) put() {
	if s.items == nil || cap(s.items) > maxPooledScratch {
		return
	}
	b := s.items[:cap(s.items)]
	clear(b)
	b = b[:0]
	s.pool.Put(&b)
}

// writerPools holds a sync.Pool of *Writer[S] per symbol type.
var writerPools = xsync.NewMap[reflect.Type, *sync.Pool]()

func acquireWriter[S Symbol]() *Writer[S] {
	t := reflect.TypeFor[S]()
	p, ok := writerPools.Load(t)
	if !ok {
		p, _ = writerPools.LoadOrStore(t, &sync.Pool{New: func() any { return NewWriter[S]() }})
	}
	w := p.Get().(*Writer[S])
	w.Reset()
	return w
}

func releaseWriter[S Symbol](w *Writer[S]) {
	if cap(w.buf) > maxPooledScratch {
		return
	}
	w.Reset()
	w.order = binary.LittleEndian
	p, _ := writerPools.Load(reflect.TypeFor[S]())
	p.Put(w)
}
