package typeexpr

import (
	"fmt"
	"slices"
	"strings"

	"json-mapper/diagnostic"
)

// Node is an element of a parsed union: either a Name or a List.
type Node interface {
	node()
}

// Name is a named type atom, as written.
type Name string

// List is a nested union. Inside a parsed tree, a List always denotes an
// array whose elements are of the listed union: redundant parentheses are
// merged into the enclosing union by the parser.
type List []Node

func (Name) node() {}
func (List) node() {}

// String renders the union back to the grammar.
//
// Examples:
//   - List{Name("string")} => "string"
//   - List{List{Name("int")}, Name("null")} => "int[]|null"
//   - List{List{Name("int"), Name("string")}} => "(int|string)[]"
func (l List) String() string {
	parts := make([]string, 0, len(l))

	for _, n := range l {
		switch n := n.(type) {
		case Name:
			parts = append(parts, string(n))
		case List:
			if len(n) == 1 {
				parts = append(parts, n.String()+"[]")
			} else {
				parts = append(parts, "("+n.String()+")[]")
			}
		}
	}

	return strings.Join(parts, "|")
}

// Parse tokenizes and parses a type expression into a nested union.
//
// Examples:
//
//   - "string" => [string]
//   - "string|null" => [string null]
//   - "int[]|null" => [[int] null]
//   - "(string|int)[]" => [[string int]]
//   - "(string|int)[]|null" => [[string int] null]
//
// Disallowed:
//
//   - nullable shorthand: "?string"
//   - generics style: "array<string>"
//   - intersection types: "A&B"
func Parse(text string) (List, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	return ParseTokens(tokens)
}

// ParseTokens parses an already tokenized type expression.
func ParseTokens(tokens []Token) (List, error) {
	p := &parser{tokens: tokens}

	result, err := p.parseUnion(false)
	if err != nil {
		return nil, err
	}

	if next := p.next(); next != nil {
		return nil, failExpectation([]string{"end of string", "|", "[]"}, next)
	}

	return result, nil
}

type parser struct {
	tokens  []Token
	pointer int
}

// Union := Value ArraySuffix ( '|' Value ArraySuffix )*
func (p *parser) parseUnion(nested bool) (List, error) {
	var values List

	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if p.isNext("[]") {
			// A parenthesized group is already a list: the first suffix
			// applies to it as a whole.
			if _, ok := value.(List); ok {
				p.advance()
			}

			for p.isNext("[]") {
				p.advance()
				value = List{value}
			}

			values = append(values, value)
		} else if group, ok := value.(List); ok {
			// unnecessary parentheses, merge into current values
			values = append(values, group...)
		} else {
			values = append(values, value)
		}

		peek := p.peek()
		if peek == nil || peek.Text == ")" {
			break
		}

		if peek.Text == "|" {
			p.advance()
			continue
		}

		expected := []string{"|", "[]"}
		if nested {
			expected = append(expected, ")")
		}

		return nil, failExpectation(expected, peek)
	}

	return values, nil
}

// Value := NamedAtom | '(' Union ')'
func (p *parser) parseValue() (Node, error) {
	next := p.next()

	if next != nil {
		if next.Named {
			return Name(next.Text), nil
		}

		if next.Text == "(" {
			value, err := p.parseUnion(true)
			if err != nil {
				return nil, err
			}

			closing := p.next()
			if closing == nil || closing.Text != ")" {
				return nil, failExpectation([]string{")", "|", "[]"}, closing)
			}

			return value, nil
		}
	}

	return nil, failExpectation([]string{"named type", "("}, next)
}

// next retrieves the next token and advances the pointer.
func (p *parser) next() *Token {
	if p.pointer == len(p.tokens) {
		return nil
	}

	t := &p.tokens[p.pointer]
	p.pointer++

	return t
}

// peek returns the next token without advancing the pointer.
func (p *parser) peek() *Token {
	if p.pointer == len(p.tokens) {
		return nil
	}

	return &p.tokens[p.pointer]
}

func (p *parser) advance() {
	p.pointer++
}

func (p *parser) isNext(text string) bool {
	t := p.peek()
	return t != nil && t.Text == text
}

var symbols = []string{"(", ")", "|", "[]"}

func failExpectation(expected []string, actual *Token) error {
	quoted := make([]string, len(expected))
	for i, e := range expected {
		if slices.Contains(symbols, e) {
			quoted[i] = `"` + e + `"`
		} else {
			quoted[i] = e
		}
	}

	found := "end of string"
	if actual != nil {
		found = fmt.Sprintf(`"%s" at offset %d`, actual.Text, actual.Offset)
	}

	return diagnostic.Errorf(diagnostic.KindGrammar, "Expected %s, found %s.", strings.Join(quoted, " or "), found)
}
