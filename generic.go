package jsonfmt

import (
	"bytes"
	"encoding/binary"
	"io"
	"slices"

	"github.com/tidwall/jsonc"
)

// Serialize encodes v with the formatter r resolves for T.
// The returned slice is owned by the caller.
func Serialize[T any, S Symbol](r *Resolver[S], v T) ([]S, error) {
	w := acquireWriter[S]()
	defer releaseWriter(w)

	Resolve[T](r).Serialize(w, v)
	out, err := w.Result()
	if err != nil {
		return nil, err
	}
	return slices.Clone(out), nil
}

// Deserialize decodes one value of type T from data. Only whitespace may
// follow the value. On error the zero T is returned.
func Deserialize[T any, S Symbol](r *Resolver[S], data []S) (T, error) {
	rd := NewReader(data)
	v := Resolve[T](r).Deserialize(rd)
	rd.EnsureEnd()
	if err := rd.Err(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Marshal encodes v as UTF-8 JSON with the default resolver.
func Marshal[T any](v T) ([]byte, error) {
	return Serialize(DefaultResolver[Utf8](), v)
}

// Unmarshal decodes UTF-8 JSON with the default resolver.
func Unmarshal[T any](data []byte) (T, error) {
	return Deserialize[T](DefaultResolver[Utf8](), data)
}

// MarshalUTF16 encodes v as UTF-16 code units with the default resolver.
func MarshalUTF16[T any](v T) ([]Utf16, error) {
	return Serialize(DefaultResolver[Utf16](), v)
}

// UnmarshalUTF16 decodes UTF-16 code units with the default resolver.
func UnmarshalUTF16[T any](data []Utf16) (T, error) {
	return Deserialize[T](DefaultResolver[Utf16](), data)
}

// UnmarshalJSONC decodes UTF-8 JSON that may contain comments and trailing
// commas.
func UnmarshalJSONC[T any](data []byte) (T, error) {
	return Unmarshal[T](jsonc.ToJSON(data))
}

func encodeTo[T any, S Symbol](dst io.Writer, v T, order binary.ByteOrder) (int64, error) {
	if dst == nil {
		return 0, ErrNilIO
	}
	w := acquireWriter[S]()
	defer releaseWriter(w)
	w.WithByteOrder(order)

	Resolve[T](DefaultResolver[S]()).Serialize(w, v)
	return w.WriteTo(dst)
}

// Encode writes v to dst as UTF-8 JSON.
func Encode[T any](dst io.Writer, v T) (int64, error) {
	return encodeTo[T, Utf8](dst, v, binary.LittleEndian)
}

// EncodeUTF16 writes v to dst as UTF-16 in the given byte order, without a BOM.
func EncodeUTF16[T any](dst io.Writer, v T, order binary.ByteOrder) (int64, error) {
	return encodeTo[T, Utf16](dst, v, order)
}

// readAll drains src into a pooled buffer and calls decode on its contents.
// WARNING: This is NOT a streaming implementation. It reads the entire
// io.Reader into memory before decoding.
func readAll[T any](src io.Reader, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if src == nil {
		return zero, ErrNilIO
	}
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)

	if _, err := buf.ReadFrom(src); err != nil {
		return zero, err
	}
	return decode(buf.Bytes())
}

// Decode reads all of src and decodes it as UTF-8 JSON.
func Decode[T any](src io.Reader) (T, error) {
	return readAll(src, Unmarshal[T])
}

// DecodeUTF16 reads all of src and decodes it as UTF-16 JSON, detecting the
// byte order from a BOM and defaulting to little endian.
func DecodeUTF16[T any](src io.Reader) (T, error) {
	return readAll(src, func(p []byte) (T, error) {
		units, err := DecodeUTF16Units(p)
		if err != nil {
			var zero T
			return zero, err
		}
		return UnmarshalUTF16[T](units)
	})
}
