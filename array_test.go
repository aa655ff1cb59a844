package jsonfmt

import (
	"strconv"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArrayFormatter[S Symbol](t *testing.T) {
	f := NewArrayFormatter[int, S](IntFormatter[int, S]{})

	t.Run("Encode", func(t *testing.T) {
		assert.Equal(t, "[1,2,3]", encode(t, f, []int{1, 2, 3}))
		assert.Equal(t, "[]", encode(t, f, []int{}))
		assert.Equal(t, "null", encode(t, f, nil))
	})

	t.Run("DecodeExactSize", func(t *testing.T) {
		got := decode(t, f, " [ 1 , 2 ,3 ] ")
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, 3, cap(got))
	})

	t.Run("DecodeGrowsScratch", func(t *testing.T) {
		want := make([]int, 100)
		parts := make([]string, len(want))
		for i := range want {
			want[i] = i * i
			parts[i] = strconv.Itoa(i * i)
		}
		got := decode(t, f, "["+strings.Join(parts, ",")+"]")
		assert.Equal(t, want, got)
	})

	t.Run("DecodeNullAndEmpty", func(t *testing.T) {
		assert.Nil(t, decode(t, f, "null"))

		a := decode(t, f, "[]")
		b := decode(t, f, "[ ]")
		require.NotNil(t, a)
		assert.Empty(t, a)
		assert.Equal(t, unsafe.SliceData(a), unsafe.SliceData(b), "empty arrays share one instance")
	})

	t.Run("Malformed", func(t *testing.T) {
		assert.ErrorIs(t, decodeErr(f, "[1,2"), ErrTruncatedData)
		assert.ErrorIs(t, decodeErr(f, "[1 2]"), ErrSyntax)
		assert.ErrorIs(t, decodeErr(f, `[1,"2"]`), ErrSyntax)
		assert.ErrorIs(t, decodeErr(f, "[1,]"), ErrSyntax)
	})

	t.Run("OpenElements", func(t *testing.T) {
		r := NewResolver[S](nil)
		open := NewArrayFormatter[any, S](NewRuntimeFormatter[any](r))
		assert.Equal(t, `[1,"a",null,true,{}]`, encode(t, open, []any{1, "a", nil, true, struct{}{}}))
		assert.Equal(t, []any{1.0, "a", nil, true}, decode(t, open, `[1,"a",null,true]`))
	})
}

func TestArrayFormatter(t *testing.T) {
	bothSymbols(t, testArrayFormatter[Utf8], testArrayFormatter[Utf16])
}
