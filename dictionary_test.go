package jsonfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userID uint32

func testDictionaryFormatter[S Symbol](t *testing.T) {
	ints := NewMapFormatter[int, string, S](IntFormatter[int, S]{}, StringFormatter[S]{})

	t.Run("IntegerKeysAreQuoted", func(t *testing.T) {
		assert.Equal(t, `{"123":"x"}`, encode(t, ints, map[int]string{123: "x"}))
		assert.Equal(t, `{"-4":"y","10":"a","2":"b"}`, encode(t, ints, map[int]string{2: "b", 10: "a", -4: "y"}))
		assert.Equal(t, map[int]string{123: "x", -4: "y"}, decode(t, ints, `{ "123" : "x", "-4":"y" }`))
	})

	t.Run("UnquotedIntegerKey", func(t *testing.T) {
		assert.ErrorIs(t, decodeErr(ints, `{123:"x"}`), ErrSyntax)
	})

	t.Run("PaddedIntegerKey", func(t *testing.T) {
		for _, in := range []string{`{" 12 ":"x"}`, `{" 12":"x"}`, `{"12 ":"x"}`, `{"+12":"x"}`, `{"":"x"}`, `{"1.5":"x"}`} {
			assert.ErrorIs(t, decodeErr(ints, in), ErrSyntax, in)
		}
	})

	t.Run("LastDuplicateWins", func(t *testing.T) {
		assert.Equal(t, map[int]string{1: "b"}, decode(t, ints, `{"1":"a","1":"b"}`))
	})

	t.Run("EmptyAndNull", func(t *testing.T) {
		assert.Equal(t, "{}", encode(t, ints, map[int]string{}))
		assert.Equal(t, "null", encode(t, ints, nil))

		got := decode(t, ints, "{}")
		require.NotNil(t, got)
		assert.Empty(t, got)
		assert.Nil(t, decode(t, ints, "null"))
	})

	t.Run("StringKeys", func(t *testing.T) {
		f := NewMapFormatter[string, []int, S](StringFormatter[S]{}, NewArrayFormatter[int, S](IntFormatter[int, S]{}))
		v := map[string][]int{"b": {1}, "a": nil, "c": {}}
		assert.Equal(t, `{"a":null,"b":[1],"c":[]}`, encode(t, f, v))
		assert.Equal(t, v, decode(t, f, `{"a":null,"b":[1],"c":[]}`))
	})

	t.Run("Truncated", func(t *testing.T) {
		assert.ErrorIs(t, decodeErr(ints, `{"1":"a",`), ErrTruncatedData)
		assert.ErrorIs(t, decodeErr(ints, `{"1"`), ErrTruncatedData)
	})

	t.Run("UnsupportedKeyKind", func(t *testing.T) {
		f := NewMapFormatter[bool, int, S](BoolFormatter[S]{}, IntFormatter[int, S]{})
		assert.Equal(t, "{}", encode(t, f, map[bool]int{}))
		assert.ErrorIs(t, encodeErr(f, map[bool]int{true: 1}), ErrNotSupported)
		assert.ErrorIs(t, decodeErr(f, `{"true":1}`), ErrNotSupported)
	})

	t.Run("DerivedMaps", func(t *testing.T) {
		r := NewResolver[S](nil)
		named := Resolve[map[userID]bool](r)
		assert.Equal(t, `{"1":true,"20":false}`, encode(t, named, map[userID]bool{20: false, 1: true}))
		assert.Equal(t, map[userID]bool{7: true}, decode(t, named, `{"7":true}`))

		assert.ErrorIs(t, encodeErr(Resolve[map[float64]int](r), map[float64]int{1: 1}), ErrNotSupported)
		assert.ErrorIs(t, encodeErr(Resolve[map[float64]int](r), map[float64]int{}), ErrNotSupported)
	})
}

func TestDictionaryFormatter(t *testing.T) {
	bothSymbols(t, testDictionaryFormatter[Utf8], testDictionaryFormatter[Utf16])
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []int{-1, 10, 9}, sortedKeys(map[int]bool{9: true, 10: true, -1: true}))
	assert.Equal(t, []string{"A", "a", "b"}, sortedKeys(map[string]int{"b": 1, "a": 2, "A": 3}))
	assert.Empty(t, sortedKeys(map[string]int{}))
}
