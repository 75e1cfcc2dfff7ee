package typeexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"json-mapper/diagnostic"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []Token
	}{
		{"", nil},
		{"A", []Token{{"A", 0, true}}},
		{"A|", []Token{{"A", 0, true}, {"|", 1, false}}},
		{"A|B", []Token{{"A", 0, true}, {"|", 1, false}, {"B", 2, true}}},
		{"Foo Bar", []Token{{"Foo", 0, true}, {"Bar", 4, true}}},
		{"()[]", []Token{{"(", 0, false}, {")", 1, false}, {"[]", 2, false}}},
		{"Foo|(app.Foo_Bar|app.Baz)[]", []Token{
			{"Foo", 0, true},
			{"|", 3, false},
			{"(", 4, false},
			{"app.Foo_Bar", 5, true},
			{"|", 16, false},
			{"app.Baz", 17, true},
			{")", 24, false},
			{"[]", 25, false},
		}},
		{" Foo | ( app.Foo_Bar | app.Baz ) [] ", []Token{
			{"Foo", 1, true},
			{"|", 5, false},
			{"(", 7, false},
			{"app.Foo_Bar", 9, true},
			{"|", 21, false},
			{"app.Baz", 23, true},
			{")", 31, false},
			{"[]", 33, false},
		}},
		{"int[][]\t|\nnull", []Token{
			{"int", 0, true},
			{"[]", 3, false},
			{"[]", 5, false},
			{"|", 8, false},
			{"null", 10, true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenizeInvalid(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"=", `Unexpected "=" at offset 0.`},
		{"==", `Unexpected "==" at offset 0.`},
		{"=A|B", `Unexpected "=" at offset 0.`},
		{"==A|B", `Unexpected "==" at offset 0.`},
		{"A|=B", `Unexpected "=" at offset 2.`},
		{"A|==B", `Unexpected "==" at offset 2.`},
		{"A|B=", `Unexpected "=" at offset 3.`},
		{"A|B==", `Unexpected "==" at offset 3.`},
		{"array<string>", `Unexpected "<" at offset 5.`},
		{"(Foo&Bar)|null", `Unexpected "&" at offset 4.`},
		{"int64", `Unexpected "64" at offset 3.`},
		{"[", `Char "[" is not followed by "]" at offset 0.`},
		{"]", `Char "]" is not preceded by "[" at offset 0.`},
		{"A[B", `Char "[" is not followed by "]" at offset 1.`},
		{"A]B", `Char "]" is not preceded by "[" at offset 1.`},
		{"A|=[]", `Unexpected "=[]" at offset 2.`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.Nil(t, tokens)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, diagnostic.KindGrammar, diagnostic.KindOf(err))
		})
	}
}
