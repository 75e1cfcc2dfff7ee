package typeexpr

import (
	"fmt"

	"json-mapper/diagnostic"
)

// Token is a single lexical unit of a type expression.
type Token struct {
	Text   string // e.g. "shop.Person", "|", "[]"
	Offset int    // byte offset into the scanned text
	Named  bool   // true for named type atoms, false for symbols
}

// String returns a readable representation used in test failures.
func (t Token) String() string {
	return fmt.Sprintf("%q@%d", t.Text, t.Offset)
}

// Tokenize splits a type expression into tokens.
//
// Valid tokens:
//   - named type: one or more of [A-Z] [a-z] "_" "."
//   - "|", "(", ")"
//   - "[]"
//
// Whitespace around tokens is ignored. Any other run of characters is
// reported as a grammar error at its byte offset.
func Tokenize(text string) ([]Token, error) {
	var tokens []Token

	for i := 0; i < len(text); {
		c := text[i]

		switch {
		case isNameChar(c):
			start := i
			for i < len(text) && isNameChar(text[i]) {
				i++
			}

			tokens = append(tokens, Token{Text: text[start:i], Offset: start, Named: true})

		case c == '|' || c == '(' || c == ')':
			tokens = append(tokens, Token{Text: text[i : i+1], Offset: i})
			i++

		case c == '[' && i+1 < len(text) && text[i+1] == ']':
			tokens = append(tokens, Token{Text: "[]", Offset: i})
			i += 2

		case isSpace(c):
			for i < len(text) && isSpace(text[i]) {
				i++
			}

		default:
			start := i
			for i < len(text) && isOtherChar(text[i]) {
				i++
			}

			return nil, unexpected(text[start:i], start)
		}
	}

	return tokens, nil
}

func unexpected(value string, offset int) error {
	var msg string

	switch value {
	case "[":
		msg = fmt.Sprintf(`Char "[" is not followed by "]" at offset %d.`, offset)
	case "]":
		msg = fmt.Sprintf(`Char "]" is not preceded by "[" at offset %d.`, offset)
	default:
		msg = fmt.Sprintf(`Unexpected "%s" at offset %d.`, value, offset)
	}

	return diagnostic.New(diagnostic.KindGrammar, msg)
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '.'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// isOtherChar reports whether c belongs to a run of unrecognized characters.
// Brackets are part of such a run: a "[]" pair is only recognized when it
// starts a token.
func isOtherChar(c byte) bool {
	return !isNameChar(c) && !isSpace(c) && c != '|' && c != '(' && c != ')'
}
