package jsonfmt

import (
	"encoding/json"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interopRecord struct {
	Name    string          `json:"name"`
	Level   color           `json:"level"`
	Scores  []float64       `json:"scores"`
	ByID    map[int]string  `json:"by_id"`
	Nested  *interopRecord  `json:"nested,omitempty"`
	Payload []byte          `json:"payload"`
	Extra   map[string]any  `json:"extra"`
	Fixed   [2]bool         `json:"fixed"`
	Opt     *string         `json:"opt"`
	Meta    map[uint8]int64 `json:"meta"`
}

var interopSample = interopRecord{
	Name:    "tab\tquote\" é 😀",
	Level:   blue,
	Scores:  []float64{1.5, 2, -0.001, 123456.75},
	ByID:    map[int]string{10: "ten", 2: "two", -1: "neg"},
	Nested:  &interopRecord{Name: "inner", Scores: []float64{}},
	Payload: []byte{0, 1, 2, 250},
	Extra:   map[string]any{"b": []any{1.0, "x"}, "a": nil, "c": true},
	Fixed:   [2]bool{true, false},
	Meta:    map[uint8]int64{1: -5, 200: 7},
}

// Output must match an independent encoder byte for byte and decode to the
// same value in both directions.
func TestInterop_GoJSON(t *testing.T) {
	ours, err := Marshal(interopSample)
	require.NoError(t, err)
	theirs, err := gojson.Marshal(interopSample)
	require.NoError(t, err)
	assert.Equal(t, string(theirs), string(ours))

	var viaThem interopRecord
	require.NoError(t, gojson.Unmarshal(ours, &viaThem))
	assert.Equal(t, interopSample, viaThem)

	viaUs, err := Unmarshal[interopRecord](theirs)
	require.NoError(t, err)
	assert.Equal(t, interopSample, viaUs)
}

func TestInterop_GoJSONUtf16(t *testing.T) {
	units, err := MarshalUTF16(interopSample)
	require.NoError(t, err)
	theirs, err := gojson.Marshal(interopSample)
	require.NoError(t, err)
	assert.Equal(t, string(theirs), text(units))
}

// goccy/go-json writes small exponents as e-07; the exponent form follows
// encoding/json instead.
func TestInterop_ExponentFloats(t *testing.T) {
	doubles := []float64{1e-7, -1.5e-10, 1e21, 1e-6, 123e300, 5e-324}
	ours, err := Marshal(doubles)
	require.NoError(t, err)
	std, err := json.Marshal(doubles)
	require.NoError(t, err)
	assert.Equal(t, string(std), string(ours))
	assert.Equal(t, `[1e-7,-1.5e-10,1e+21,0.000001,1.23e+302,5e-324]`, string(ours))

	singles := []float32{1e-7, 3.4e38, 0.1}
	ours, err = Marshal(singles)
	require.NoError(t, err)
	std, err = json.Marshal(singles)
	require.NoError(t, err)
	assert.Equal(t, string(std), string(ours))

	back, err := Unmarshal[[]float64](ours)
	require.NoError(t, err)
	assert.Len(t, back, 3)
}
