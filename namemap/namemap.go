// Package namemap provides the strategies used to translate between JSON
// property names and constructor parameter names.
package namemap

import (
	"fmt"
	"strings"
	"unicode"
)

// Mapper translates a single name. Implementations must be pure.
type Mapper interface {
	MapName(name string) string
}

// Func adapts a plain function to a Mapper.
type Func func(name string) string

// MapName calls f.
func (f Func) MapName(name string) string { return f(name) }

// Identity returns names unchanged.
var Identity Mapper = Func(func(name string) string { return name })

// CamelToSnake converts "companyNumber" to "company_number" and "OrderID"
// to "order_id".
var CamelToSnake Mapper = Func(func(name string) string {
	tokens := tokenizeCamelCase(name)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return strings.Join(tokens, "_")
})

// SnakeToCamel converts "company_number" to "companyNumber". Only an
// underscore followed by a lowercase ASCII letter is folded.
var SnakeToCamel Mapper = Func(func(name string) string {
	var b strings.Builder

	b.Grow(len(name))

	for i := 0; i < len(name); i++ {
		if name[i] == '_' && i+1 < len(name) && name[i+1] >= 'a' && name[i+1] <= 'z' {
			b.WriteByte(name[i+1] - 'a' + 'A')
			i++

			continue
		}

		b.WriteByte(name[i])
	}

	return b.String()
})

// Table maps listed names and leaves any other name unchanged.
type Table map[string]string

// MapName implements Mapper.
func (t Table) MapName(name string) string {
	if mapped, ok := t[name]; ok {
		return mapped
	}

	return name
}

// Invert returns the reverse table.
func (t Table) Invert() Table {
	inv := make(Table, len(t))
	for k, v := range t {
		inv[v] = k
	}

	return inv
}

// Override maps the names listed in t and hands every other name to
// fallback.
func Override(t Table, fallback Mapper) Mapper {
	if len(t) == 0 {
		return fallback
	}

	return Func(func(name string) string {
		if mapped, ok := t[name]; ok {
			return mapped
		}

		return fallback.MapName(name)
	})
}

// Names accepted by ByName.
const (
	NameIdentity     = "identity"
	NameCamelToSnake = "camel_to_snake"
	NameSnakeToCamel = "snake_to_camel"
)

// ByName returns the builtin strategy registered under name.
// The empty name selects Identity.
func ByName(name string) (Mapper, error) {
	switch name {
	case "", NameIdentity:
		return Identity, nil
	case NameCamelToSnake:
		return CamelToSnake, nil
	case NameSnakeToCamel:
		return SnakeToCamel, nil
	default:
		return nil, fmt.Errorf("unknown name mapper %q", name)
	}
}

// tokenizeCamelCase splits a CamelCase or camelCase string into tokens.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "first_name" -> ["first", "name"]
func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

// startsToken reports whether runes[i] begins a new word: a lower-to-upper
// transition, or the last capital of an acronym followed by a lowercase rune.
func startsToken(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
