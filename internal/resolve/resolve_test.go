package resolve

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"json-mapper/diagnostic"
	"json-mapper/introspect"
	"json-mapper/jsonvalue"
)

const pkg = "json-mapper/internal/resolve"

type person struct {
	Name string `json:"name"`
}

type company struct {
	Name string `json:"name"`
}

type customer interface {
	customer()
}

type suit string

type rank int

type color float64

type sample struct {
	ID       int              `json:"id"`
	Ratio    float32          `json:"ratio"`
	Name     string           `json:"name"`
	Active   bool             `json:"active"`
	Picture  *string          `json:"picture"`
	Tags     []string         `json:"tags"`
	Matrix   [][]int          `json:"matrix"`
	Owner    person           `json:"owner"`
	Partner  *company         `json:"partner"`
	Customer customer         `json:"customer"`
	Suit     suit             `json:"suit"`
	Rank     *rank            `json:"rank"`
	Any      any              `json:"any"`
	AnyPtr   *any             `json:"anyPtr"`
	Raw      jsonvalue.Value  `json:"raw"`
	RawArr   jsonvalue.Array  `json:"rawArr"`
	RawObj   jsonvalue.Object `json:"rawObj"`
	Untyped  []any            `json:"untyped"`
	Union    any              `json:"union" jsontype:"person|company|null"`
	Nested   []any            `json:"nested" jsontype:"(int|string)[][]|null"`
	Bools    []bool           `json:"bools" jsontype:"true[]"`
	Relative any              `json:"relative" jsontype:"person[]"`
	Short    any              `json:"short" jsontype:"resolve.company"`
	Enum     any              `json:"enum" jsontype:"suit|rank|null"`
}

type broken struct {
	Map      map[string]int `json:"map"`
	Fixed    [2]int         `json:"fixed"`
	Double   **int          `json:"double"`
	Callback func()         `json:"callback"`
	Events   chan int       `json:"events"`
	Complex  complex128     `json:"complex"`
	Color    color          `json:"color"`
	Empty    string         `json:"empty" jsontype:"  "`
	Grammar  string         `json:"grammar" jsontype:"int|"`
	Unknown  string         `json:"unknown" jsontype:"persn"`
	Bad      string         `json:"bad" jsontype:"int|int"`
	Static   string         `json:"static" jsontype:"static"`
	Both     string         `json:"both" jsontype:"true|false"`
}

func newRegistry(t *testing.T) *introspect.Registry {
	t.Helper()

	reg := introspect.NewRegistry()
	require.NoError(t, reg.Register(sample{}, broken{}, person{}, company{}, (*customer)(nil)))

	_, err := introspect.RegisterEnum(reg, suit("hearts"), suit("spades"))
	require.NoError(t, err)

	_, err = introspect.RegisterEnum(reg, rank(1), rank(2))
	require.NoError(t, err)

	_, err = introspect.RegisterEnum(reg, color(0.5))
	require.NoError(t, err)

	return reg
}

func paramType(t *testing.T, r *Resolver, reg *introspect.Registry, class any, param string) (string, error) {
	t.Helper()

	c, err := reg.ClassFor(reflect.TypeOf(class))
	require.NoError(t, err)

	p, ok := c.Param(param)
	require.True(t, ok, param)

	u, err := r.ParamType(c, p)
	if err != nil {
		return "", err
	}

	return u.String(), nil
}

func TestParamTypeNative(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{AllowUntypedArrays: true, AllowUntypedObjects: true, AllowMixed: true}, nil)

	tests := []struct {
		param    string
		expected string
	}{
		{"id", "int"},
		{"ratio", "float"},
		{"name", "string"},
		{"active", "bool"},
		{"picture", "string|null"},
		{"tags", "string[]"},
		{"matrix", "int[][]"},
		{"owner", pkg + ".person"},
		{"partner", pkg + ".company|null"},
		{"customer", pkg + ".customer"},
		{"suit", pkg + ".suit"},
		{"rank", pkg + ".rank|null"},
		{"any", "mixed"},
		{"anyPtr", "mixed"},
		{"raw", "mixed"},
		{"rawArr", "array"},
		{"rawObj", "object"},
		{"untyped", "mixed[]"},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			got, err := paramType(t, r, reg, sample{}, tt.param)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParamTypeDocumented(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{}, nil)

	tests := []struct {
		param    string
		expected string
	}{
		{"union", pkg + ".person|" + pkg + ".company|null"},
		{"nested", "(int|string)[][]|null"},
		{"bools", "true[]"},
		{"relative", pkg + ".person[]"},
		{"short", pkg + ".company"},
		{"enum", pkg + ".suit|" + pkg + ".rank|null"},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			got, err := paramType(t, r, reg, sample{}, tt.param)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParamTypeGating(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{}, nil)

	tests := []struct {
		param   string
		message string
		hints   int
	}{
		{"any", `Parameter "any" of ` + pkg + `.sample contains type "mixed" which is not allowed by default.`, 1},
		{"rawArr", `Parameter "rawArr" of ` + pkg + `.sample contains type "array" which is not allowed by default.`, 2},
		{"rawObj", `Parameter "rawObj" of ` + pkg + `.sample contains type "object" which is not allowed by default.`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			_, err := paramType(t, r, reg, sample{}, tt.param)

			de, ok := diagnostic.As(err)
			require.True(t, ok)
			assert.Equal(t, diagnostic.KindUnsupportedType, de.Kind)
			assert.Equal(t, tt.message, de.Message)
			assert.Len(t, de.Hints, tt.hints)
		})
	}
}

func TestParamTypeErrors(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{AllowMixed: true}, nil)

	prefix := func(param string) string { return `Parameter "` + param + `" of ` + pkg + `.broken ` }

	tests := []struct {
		param   string
		kind    diagnostic.Kind
		message string
	}{
		{"map", diagnostic.KindUnsupportedType, prefix("map") + "has unsupported Go type map[string]int."},
		{"fixed", diagnostic.KindUnsupportedType, prefix("fixed") + "has unsupported Go type [2]int."},
		{"double", diagnostic.KindUnsupportedType, prefix("double") + "has unsupported Go type **int."},
		{"callback", diagnostic.KindUnsupportedType, prefix("callback") + `contains type "callable" which is not allowed.`},
		{"events", diagnostic.KindUnsupportedType, prefix("events") + `contains type "iterable" which is not allowed.`},
		{"complex", diagnostic.KindUnsupportedType, prefix("complex") + "has unsupported Go type complex128."},
		{"color", diagnostic.KindUnsupportedType, "Non-backed enums are not supported."},
		{"empty", diagnostic.KindTypeDefinition, prefix("empty") + "has an empty documented type."},
		{"grammar", diagnostic.KindGrammar, prefix("grammar") + "has an invalid documented type: Expected named type or \"(\", found end of string."},
		{"unknown", diagnostic.KindUnknownType, prefix("unknown") + `contains unknown type "persn".`},
		{"bad", diagnostic.KindTypeDefinition, prefix("bad") + `contains an invalid type: Duplicate type "int" is redundant.`},
		{"static", diagnostic.KindUnsupportedType, prefix("static") + `contains type "static" which is not allowed.`},
		{"both", diagnostic.KindTypeDefinition, prefix("both") +
			`contains an invalid type: Type contains both "true" and "false", "bool" should be used instead.`},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			_, err := paramType(t, r, reg, broken{}, tt.param)

			de, ok := diagnostic.As(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.message, de.Message)
			assert.True(t, de.Kind.IsConfiguration())
		})
	}
}

func TestUnknownTypeSuggestion(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{}, nil)

	_, err := paramType(t, r, reg, broken{}, "unknown")

	de, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Contains(t, de.Hints, `Did you mean "person"?`)
}

func TestMultipleDocumentedTypes(t *testing.T) {
	reg := newRegistry(t)

	c, err := reg.ClassFor(reflect.TypeFor[person]())
	require.NoError(t, err)

	p, _ := c.Param("name")

	af := &introspect.AnnotationFile{Classes: introspect.Annotations{}}
	af.Classes.Set(pkg+".company", "name", "string|null")
	require.NoError(t, reg.Apply(af))

	co, err := reg.ClassFor(reflect.TypeFor[company]())
	require.NoError(t, err)

	cp, _ := co.Param("name")
	cp.Docs = append(cp.Docs, "string")

	r := New(reg, Flags{}, nil)

	_, err = r.ParamType(co, cp)
	require.Error(t, err)
	assert.Equal(t, `Parameter "name" of `+pkg+`.company has multiple documented types.`, err.Error())

	u, err := r.ParamType(c, p)
	require.NoError(t, err)
	assert.Equal(t, "string", u.String())
}

func TestParamTypeCache(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{}, nil)

	c, err := reg.ClassFor(reflect.TypeFor[sample]())
	require.NoError(t, err)

	p, _ := c.Param("tags")

	first, err := r.ParamType(c, p)
	require.NoError(t, err)

	second, err := r.ParamType(c, p)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestParamTypeClosureNotCached(t *testing.T) {
	reg := introspect.NewRegistry()

	c, err := reg.RegisterConstructor(func(name string) person {
		return person{Name: name}
	}, introspect.ParamNames("name"))
	require.NoError(t, err)
	require.True(t, c.Closure())

	r := New(reg, Flags{}, nil)
	p, _ := c.Param("name")

	first, err := r.ParamType(c, p)
	require.NoError(t, err)

	second, err := r.ParamType(c, p)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.String(), second.String())
}

func TestExpr(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{}, nil)

	u, err := r.Expr("(person|null)[]|INT", pkg)
	require.NoError(t, err)
	assert.Equal(t, "("+pkg+".person|null)[]|int", u.String())

	_, err = r.Expr("A|B=", pkg)

	de, ok := diagnostic.As(err)
	require.True(t, ok)
	assert.Equal(t, diagnostic.KindGrammar, de.Kind)
	assert.Equal(t, `Type "A|B=" has an invalid documented type: Unexpected "=" at offset 3.`, de.Message)
}

func TestNative(t *testing.T) {
	reg := newRegistry(t)
	r := New(reg, Flags{}, nil)

	u, err := r.Native(reflect.TypeFor[[]*person]())
	require.NoError(t, err)
	assert.Equal(t, "("+pkg+".person|null)[]", u.String())
}
