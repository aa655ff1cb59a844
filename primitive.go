package jsonfmt

import (
	"encoding/base64"
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

func bitSize[T constraints.Integer | constraints.Float]() int {
	var v T
	return int(unsafe.Sizeof(v)) * 8
}

type BoolFormatter[S Symbol] struct{}

func (BoolFormatter[S]) Serialize(w *Writer[S], v bool) { w.WriteBool(v) }
func (BoolFormatter[S]) Deserialize(r *Reader[S]) bool  { return r.ReadBool() }

// IntFormatter writes signed integers; reads are range-checked for T.
type IntFormatter[T constraints.Signed, S Symbol] struct{}

func (IntFormatter[T, S]) Serialize(w *Writer[S], v T) { w.WriteInt64(int64(v)) }
func (IntFormatter[T, S]) Deserialize(r *Reader[S]) T  { return T(r.ReadInt64(bitSize[T]())) }

// UintFormatter writes unsigned integers; reads are range-checked for T.
type UintFormatter[T constraints.Unsigned, S Symbol] struct{}

func (UintFormatter[T, S]) Serialize(w *Writer[S], v T) { w.WriteUint64(uint64(v)) }
func (UintFormatter[T, S]) Deserialize(r *Reader[S]) T  { return T(r.ReadUint64(bitSize[T]())) }

type FloatFormatter[T constraints.Float, S Symbol] struct{}

func (FloatFormatter[T, S]) Serialize(w *Writer[S], v T) { w.WriteFloat(float64(v), bitSize[T]()) }
func (FloatFormatter[T, S]) Deserialize(r *Reader[S]) T  { return T(r.ReadFloat(bitSize[T]())) }

type StringFormatter[S Symbol] struct{}

func (StringFormatter[S]) Serialize(w *Writer[S], v string) { w.WriteString(v) }
func (StringFormatter[S]) Deserialize(r *Reader[S]) string  { return r.ReadString() }

// BytesFormatter writes []byte as a standard base64 string, nil as null.
type BytesFormatter[S Symbol] struct{}

func (BytesFormatter[S]) Serialize(w *Writer[S], v []byte) {
	if v == nil {
		w.WriteNull()
		return
	}
	w.WriteQuote()
	w.WriteRaw(base64.StdEncoding.EncodeToString(v))
	w.WriteQuote()
}

func (BytesFormatter[S]) Deserialize(r *Reader[S]) []byte {
	if r.ReadIsNull() {
		return nil
	}
	s := r.ReadString()
	if r.Err() != nil {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		r.SetError(fmt.Errorf("%w: invalid base64 at offset %d: %v", ErrSyntax, r.Pos(), err))
		return nil
	}
	return b
}
