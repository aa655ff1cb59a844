package jsonfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty"`
}

type person struct {
	Name   string
	Age    int      `json:"age"`
	Email  string   `json:"-"`
	Tags   []string `json:"tags,omitempty"`
	Home   *address `json:"home"`
	secret string
}

type account struct {
	UserID      int
	DisplayName string
	Plan        string `json:"plan_name"`
}

type base struct {
	ID int
}

type Audit struct {
	Created string
}

type derived struct {
	base
	*Audit
	Name string
}

type wrapped struct {
	Audit `json:"audit"`
	ID    int
}

type tree struct {
	Value    int
	Children []tree `json:",omitempty"`
}

type blob []byte

type shapes struct {
	Grid  [2][2]int
	Index map[int]string
	Data  blob
	Any   any
}

func testObjects[S Symbol](t *testing.T) {
	r := NewResolver[S](nil)

	t.Run("Tags", func(t *testing.T) {
		p := person{Name: "Ann", Age: 30, Email: "x", Home: &address{City: "Oslo"}, secret: "s"}
		out, err := Serialize(r, p)
		require.NoError(t, err)
		assert.Equal(t, `{"Name":"Ann","age":30,"home":{"city":"Oslo"}}`, text(out))

		back, err := Deserialize[person](r, out)
		require.NoError(t, err)
		assert.Equal(t, person{Name: "Ann", Age: 30, Home: &address{City: "Oslo"}}, back)
	})

	t.Run("UnknownMembersAndCase", func(t *testing.T) {
		in := `{"name":"Bo","extra":{"a":[1,2,{"b":null}]},"age":5,"Email":"ignored","home":null}`
		got, err := Deserialize[person](r, symbolsOf[S](in))
		require.NoError(t, err)
		assert.Equal(t, person{Name: "Bo", Age: 5}, got)
	})

	t.Run("Null", func(t *testing.T) {
		got, err := Deserialize[person](r, symbolsOf[S]("null"))
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := Deserialize[person](r, symbolsOf[S](`{"age":"x"}`))
		assert.ErrorIs(t, err, ErrSyntax)
		_, err = Deserialize[person](r, symbolsOf[S](`{"age":1`))
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("Embedded", func(t *testing.T) {
		d := derived{base: base{ID: 7}, Name: "n"}
		out, err := Serialize(r, d)
		require.NoError(t, err)
		assert.Equal(t, `{"ID":7,"Name":"n"}`, text(out))

		back, err := Deserialize[derived](r, symbolsOf[S](`{"ID":7,"Created":"today","Name":"n"}`))
		require.NoError(t, err)
		require.NotNil(t, back.Audit)
		assert.Equal(t, "today", back.Created)
		assert.Equal(t, 7, back.ID)

		w := wrapped{Audit: Audit{Created: "now"}, ID: 1}
		out, err = Serialize(r, w)
		require.NoError(t, err)
		assert.Equal(t, `{"audit":{"Created":"now"},"ID":1}`, text(out))
	})

	t.Run("RecursiveType", func(t *testing.T) {
		v := tree{Value: 1, Children: []tree{{Value: 2}, {Value: 3, Children: []tree{{Value: 4}}}}}
		out, err := Serialize(r, v)
		require.NoError(t, err)
		assert.Equal(t, `{"Value":1,"Children":[{"Value":2},{"Value":3,"Children":[{"Value":4}]}]}`, text(out))
		back, err := Deserialize[tree](r, out)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	})

	t.Run("Shapes", func(t *testing.T) {
		v := shapes{
			Grid:  [2][2]int{{1, 2}, {3, 4}},
			Index: map[int]string{10: "a", 9: "b"},
			Data:  blob{1, 2},
			Any:   map[string]any{"k": []any{true}},
		}
		out, err := Serialize(r, v)
		require.NoError(t, err)
		assert.Equal(t, `{"Grid":[[1,2],[3,4]],"Index":{"10":"a","9":"b"},"Data":"AQI=","Any":{"k":[true]}}`, text(out))
		back, err := Deserialize[shapes](r, out)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	})
}

func TestObjects(t *testing.T) {
	bothSymbols(t, testObjects[Utf8], testObjects[Utf16])
}

func TestNamingPolicy(t *testing.T) {
	v := account{UserID: 1, DisplayName: "a", Plan: "pro"}

	snake := NewResolver[Utf8](&ResolverOptions{NamingPolicy: SnakeCase})
	out, err := Serialize(snake, v)
	require.NoError(t, err)
	assert.Equal(t, `{"user_id":1,"display_name":"a","plan_name":"pro"}`, string(out))
	back, err := Deserialize[account](snake, out)
	require.NoError(t, err)
	assert.Equal(t, v, back)

	camel := NewResolver[Utf16](&ResolverOptions{NamingPolicy: CamelCase})
	units, err := Serialize(camel, v)
	require.NoError(t, err)
	assert.Equal(t, `{"userID":1,"displayName":"a","plan_name":"pro"}`, text(units))
}
