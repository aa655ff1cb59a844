package jsonfmt

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/puzpuzpuz/xsync/v4"
)

// CaseMutator converts identifiers between casing styles. Results are
// memoized for the lifetime of the mutator, keyed by the input.
type CaseMutator struct {
	camel *xsync.Map[string, string]
	snake *xsync.Map[string, string]
}

func NewCaseMutator() *CaseMutator {
	return &CaseMutator{
		camel: xsync.NewMap[string, string](),
		snake: xsync.NewMap[string, string](),
	}
}

var defaultCaseMutator = NewCaseMutator()

// CamelCase converts s with the process-wide CaseMutator.
func CamelCase(s string) string { return defaultCaseMutator.CamelCase(s) }

// SnakeCase converts s with the process-wide CaseMutator.
func SnakeCase(s string) string { return defaultCaseMutator.SnakeCase(s) }

func memoize(cache *xsync.Map[string, string], s string, convert func(string) string) string {
	if v, ok := cache.Load(s); ok {
		return v
	}
	v := convert(s)
	cache.Store(s, v)
	return v
}

// CamelCase lower-cases the leading run of upper-case letters, leaving the
// last letter of the run upper-case when a lower-case word follows it:
// "MyProperty" becomes "myProperty", "HTMLParser" becomes "htmlParser" and
// "ID" becomes "iD".
func (m *CaseMutator) CamelCase(s string) string {
	return memoize(m.camel, s, toCamelCase)
}

// SnakeCase lower-cases s and separates words with underscores. A run of
// capitals is one word, spaces become a single underscore and existing
// underscores are kept: "HTTPServer" becomes "http_server".
func (m *CaseMutator) SnakeCase(s string) string {
	return memoize(m.snake, s, toSnakeCase)
}

// isSeparator reports whether r is a Unicode space, line or paragraph separator.
func isSeparator(r rune) bool {
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}

func toCamelCase(s string) string {
	first, _ := utf8.DecodeRuneInString(s)
	if s == "" || !unicode.IsUpper(first) {
		return s
	}
	runes := []rune(s)
	for i := range runes {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 {
			// The end of the string or a non-capital ends the run. The current
			// letter starts the next word unless a separator follows it.
			if i+1 == len(runes) {
				break
			}
			if next := runes[i+1]; !unicode.IsUpper(next) {
				if isSeparator(next) {
					runes[i] = unicode.ToLower(runes[i])
				}
				break
			}
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

type snakeState int

const (
	snakeStart snakeState = iota
	snakeLower
	snakeUpper
	snakeNewWord
)

func toSnakeCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) + len(s)/2)
	state := snakeStart
	for i, c := range runes {
		switch {
		case c == ' ':
			if state != snakeStart {
				state = snakeNewWord
			}
		case unicode.IsUpper(c):
			switch state {
			case snakeUpper:
				if i > 0 && i+1 < len(runes) {
					if next := runes[i+1]; !unicode.IsUpper(next) && next != '_' {
						sb.WriteByte('_')
					}
				}
			case snakeLower, snakeNewWord:
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(c))
			state = snakeUpper
		case c == '_':
			sb.WriteByte('_')
			state = snakeStart
		default:
			if state == snakeNewWord {
				sb.WriteByte('_')
			}
			sb.WriteRune(c)
			state = snakeLower
		}
	}
	return sb.String()
}
