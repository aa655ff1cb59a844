package jsonfmt

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type casePair struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

type caseTable struct {
	Camel []casePair `yaml:"camel"`
	Snake []casePair `yaml:"snake"`
}

func loadCaseTable(t *testing.T) caseTable {
	t.Helper()
	data, err := os.ReadFile("testdata/casing.yaml")
	require.NoError(t, err)
	var table caseTable
	require.NoError(t, yaml.Unmarshal(data, &table))
	require.NotEmpty(t, table.Camel)
	require.NotEmpty(t, table.Snake)
	return table
}

func TestCamelCase(t *testing.T) {
	for _, tc := range loadCaseTable(t).Camel {
		t.Run(tc.In, func(t *testing.T) {
			assert.Equal(t, tc.Out, CamelCase(tc.In))
		})
	}

	t.Run("SeparatorStopsRun", func(t *testing.T) {
		// U+00A0 and U+2028 are separators; a digit is not.
		assert.Equal(t, "ab\u00a0c", CamelCase("AB\u00a0c"))
		assert.Equal(t, "ab\u2028C", CamelCase("AB\u2028C"))
		assert.Equal(t, "aB1", CamelCase("AB1"))
	})
}

func TestSnakeCase(t *testing.T) {
	for _, tc := range loadCaseTable(t).Snake {
		t.Run(tc.In, func(t *testing.T) {
			assert.Equal(t, tc.Out, SnakeCase(tc.In))
		})
	}
}

func TestCaseMutator_Memoizes(t *testing.T) {
	m := NewCaseMutator()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "httpServer", m.CamelCase("HTTPServer"))
			assert.Equal(t, "http_server", m.SnakeCase("HTTPServer"))
		}()
	}
	wg.Wait()

	v, ok := m.camel.Load("HTTPServer")
	require.True(t, ok)
	assert.Equal(t, "httpServer", v)
	v, ok = m.snake.Load("HTTPServer")
	require.True(t, ok)
	assert.Equal(t, "http_server", v)
	assert.Equal(t, 1, m.camel.Size())
}
