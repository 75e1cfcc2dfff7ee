package typeexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"json-mapper/diagnostic"
)

// l is a shorthand for building expected trees.
func l(nodes ...any) List {
	out := make(List, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case string:
			out = append(out, Name(n))
		case List:
			out = append(out, n)
		}
	}

	return out
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected List
	}{
		{"string", l("string")},
		{"string|null", l("string", "null")},
		{"(string|null)[]", l(l("string", "null"))},
		{"string|int[]", l("string", l("int"))},
		{"string|(int|null)[]", l("string", l("int", "null"))},
		{"A|B|C", l("A", "B", "C")},
		{"A|B|C[]|D[]", l("A", "B", l("C"), l("D"))},
		{"A|B|(C|D[])[]|E[]", l("A", "B", l("C", l("D")), l("E"))},
		{"A|B|(C|D[])[][]|E[]", l("A", "B", l(l("C", l("D"))), l("E"))},
		{"(A)|B", l("A", "B")},
		{"int", l("int")},
		{"int[]", l(l("int"))},
		{"int[][]", l(l(l("int")))},
		{"(int)", l("int")},
		{"((int))", l("int")},
		{"(((int)))[]", l(l("int"))},
		{"(int)[]", l(l("int"))},
		{"(int)[][][]", l(l(l(l("int"))))},
		{"((int)[])[]", l(l(l("int")))},
		{"((int|false)[])[]", l(l(l("int", "false")))},
		{"((int|false)[]|null)[]", l(l(l("int", "false"), "null"))},
		{"((int|false)[]|null)[]|true", l(l(l("int", "false"), "null"), "true")},
		{"string|(int|float)[]", l("string", l("int", "float"))},
		{"int[]|(string|A|B|(int|float)[])[]|null", l(l("int"), l("string", "A", "B", l("int", "float")), "null")},
		{"(int)[]|(string|int)[]|float|string", l(l("int"), l("string", "int"), "float", "string")},
		{"shop.Person|shop.Company", l("shop.Person", "shop.Company")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			tree, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tree)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"", `Expected named type or "(", found end of string.`},
		{" ", `Expected named type or "(", found end of string.`},
		{"A | ", `Expected named type or "(", found end of string.`},
		{"?string", `Unexpected "?" at offset 0.`},
		{"array<string>", `Unexpected "<" at offset 5.`},
		{"|", `Expected named type or "(", found "|" at offset 0.`},
		{"[]", `Expected named type or "(", found "[]" at offset 0.`},
		{"()", `Expected named type or "(", found ")" at offset 1.`},
		{"()[]", `Expected named type or "(", found ")" at offset 1.`},
		{"(|)[]", `Expected named type or "(", found "|" at offset 1.`},
		{"|[]", `Expected named type or "(", found "|" at offset 0.`},
		{")", `Expected named type or "(", found ")" at offset 0.`},
		{"(", `Expected named type or "(", found end of string.`},
		{")[]", `Expected named type or "(", found ")" at offset 0.`},
		{"(A)[", `Char "[" is not followed by "]" at offset 3.`},
		{"(A)]", `Char "]" is not preceded by "[" at offset 3.`},
		{"A A", `Expected "|" or "[]", found "A" at offset 2.`},
		{"(A A)", `Expected "|" or "[]" or ")", found "A" at offset 3.`},
		{"((A)A)", `Expected "|" or "[]" or ")", found "A" at offset 4.`},
		{"(A)(A)", `Expected "|" or "[]", found "(" at offset 3.`},
		{"((A)(A))", `Expected "|" or "[]" or ")", found "(" at offset 4.`},
		{"A|", `Expected named type or "(", found end of string.`},
		{"|B", `Expected named type or "(", found "|" at offset 0.`},
		{"(A|)[]", `Expected named type or "(", found ")" at offset 3.`},
		{"(|B)[]", `Expected named type or "(", found "|" at offset 1.`},
		{"A||B", `Expected named type or "(", found "|" at offset 2.`},
		{"(A[]", `Expected ")" or "|" or "[]", found end of string.`},
		{"B)[]", `Expected end of string or "|" or "[]", found ")" at offset 1.`},
		{"(A", `Expected ")" or "|" or "[]", found end of string.`},
		{"B)", `Expected end of string or "|" or "[]", found ")" at offset 1.`},
		{"A&B", `Unexpected "&" at offset 1.`},
		{"A*B", `Unexpected "*" at offset 1.`},
		{"A/B", `Unexpected "/" at offset 1.`},
		{"A|B=|C", `Unexpected "=" at offset 3.`},
		{"A|B|", `Expected named type or "(", found end of string.`},
		{"((A)[]", `Expected ")" or "|" or "[]", found end of string.`},
		{"(A))[]", `Expected end of string or "|" or "[]", found ")" at offset 3.`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, diagnostic.KindGrammar, diagnostic.KindOf(err))
		})
	}
}

func TestListString(t *testing.T) {
	tests := []struct {
		input    string
		rendered string
	}{
		{"int", "int"},
		{"(A)|B", "A|B"},
		{"((int))", "int"},
		{"(int)[]", "int[]"},
		{"int[][]", "int[][]"},
		{"(int|string)[]|null", "(int|string)[]|null"},
		{"((int|false)[]|null)[]|true", "((int|false)[]|null)[]|true"},
		{" A |  B [] ", "A|B[]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.rendered, tree.String())
		})
	}
}
