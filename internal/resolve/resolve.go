// Package resolve turns the declared type of a constructor parameter into a
// validated union descriptor. The declaration is the documented type
// expression when there is one, and the native Go type otherwise.
package resolve

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"json-mapper/diagnostic"
	"json-mapper/internal/match"
	"json-mapper/internal/typedesc"
	"json-mapper/internal/typeexpr"
	"json-mapper/introspect"
	"json-mapper/jsonvalue"
)

// disallowed names are builtin concepts that cannot be built from JSON
var disallowed = []string{"self", "static", "parent", "void", "never", "iterable", "callable"}

var (
	valueType  = reflect.TypeFor[jsonvalue.Value]()
	arrayType  = reflect.TypeFor[jsonvalue.Array]()
	objectType = reflect.TypeFor[jsonvalue.Object]()
)

// Flags gate the untyped atoms, which are rejected by default.
type Flags struct {
	AllowUntypedArrays  bool
	AllowUntypedObjects bool
	AllowMixed          bool
}

// Resolver resolves and caches parameter types. It is safe for concurrent use.
type Resolver struct {
	reg    *introspect.Registry
	flags  Flags
	logger *slog.Logger

	// cache key -> *typedesc.Union
	cache sync.Map
}

// New returns a Resolver over reg. A nil logger discards.
func New(reg *introspect.Registry, flags Flags, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Resolver{reg: reg, flags: flags, logger: logger}
}

// ParamType returns the union descriptor of a constructor parameter.
// Results are cached per class, constructor function and parameter, except
// for parameters of anonymous constructor functions.
func (r *Resolver) ParamType(c *introspect.Class, p *introspect.Param) (*typedesc.Union, error) {
	var key string

	if !c.Closure() {
		key = c.Name + ":" + c.FuncName() + ":" + p.Name
		if u, ok := r.cache.Load(key); ok {
			return u.(*typedesc.Union), nil
		}
	}

	sc := scope{
		subject: fmt.Sprintf("Parameter %q of %s", p.Name, c.Describe()),
		pkg:     c.Scope(),
	}

	u, err := r.paramType(p, sc)
	if err != nil {
		return nil, err
	}

	if key != "" {
		actual, _ := r.cache.LoadOrStore(key, u)
		u = actual.(*typedesc.Union)
	}

	r.logger.Debug("resolved parameter type", "class", c.Name, "param", p.Name, "type", u.String())

	return u, nil
}

// Expr resolves a standalone type expression, with names relative to the
// package path pkg.
func (r *Resolver) Expr(expr, pkg string) (*typedesc.Union, error) {
	return r.doc(expr, scope{subject: fmt.Sprintf("Type %q", expr), pkg: pkg})
}

// Native resolves a Go type.
func (r *Resolver) Native(t reflect.Type) (*typedesc.Union, error) {
	return r.native(t, scope{subject: "Type " + t.String(), pkg: t.PkgPath()})
}

type scope struct {
	// names the declaration in messages
	subject string
	// package documented names are relative to
	pkg string
}

func (sc scope) errorf(kind diagnostic.Kind, format string, args ...any) *diagnostic.Error {
	return diagnostic.New(kind, sc.subject+" "+fmt.Sprintf(format, args...))
}

func (r *Resolver) paramType(p *introspect.Param, sc scope) (*typedesc.Union, error) {
	switch len(p.Docs) {
	case 0:
		return r.native(p.Type, sc)
	case 1:
		return r.doc(p.Docs[0], sc)
	default:
		return nil, sc.errorf(diagnostic.KindTypeDefinition, "has multiple documented types.")
	}
}

func (r *Resolver) doc(expr string, sc scope) (*typedesc.Union, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, sc.errorf(diagnostic.KindTypeDefinition, "has an empty documented type.")
	}

	tree, err := typeexpr.Parse(expr)
	if err != nil {
		msg := err.Error()
		if de, ok := diagnostic.As(err); ok {
			msg = de.Message
		}

		return nil, diagnostic.Wrap(diagnostic.KindGrammar, err,
			sc.subject+" has an invalid documented type: "+msg)
	}

	return r.docUnion(tree, sc)
}

func (r *Resolver) docUnion(list typeexpr.List, sc scope) (*typedesc.Union, error) {
	atoms := make([]typedesc.Atom, 0, len(list))

	for _, n := range list {
		switch n := n.(type) {
		case typeexpr.Name:
			a, err := r.docName(string(n), sc)
			if err != nil {
				return nil, err
			}

			atoms = append(atoms, a)

		case typeexpr.List:
			elem, err := r.docUnion(n, sc)
			if err != nil {
				return nil, err
			}

			atoms = append(atoms, typedesc.ArrayOf{Elem: elem})
		}
	}

	return newUnion(atoms, sc)
}

func (r *Resolver) docName(name string, sc scope) (typedesc.Atom, error) {
	if a, ok, err := r.builtin(strings.ToLower(name), sc); ok || err != nil {
		return a, err
	}

	fq, ok := r.reg.Qualify(name, sc.pkg)
	if !ok {
		e := sc.errorf(diagnostic.KindUnknownType, "contains unknown type %q.", name)
		e.Hints = append(e.Hints, "Register the type with the registry, or check its spelling.")

		if hint := match.Hint(match.Suggest(name, r.reg.Names(sc.pkg))); hint != "" {
			e.Hints = append(e.Hints, hint)
		}

		return nil, e
	}

	if e, ok := r.reg.Enum(fq); ok {
		return enumAtom(e)
	}

	return typedesc.Class{Name: fq}, nil
}

// builtin resolves a lower-cased primitive or disallowed name. ok is false
// for any other name.
func (r *Resolver) builtin(lower string, sc scope) (a typedesc.Atom, ok bool, err error) {
	if slices.Contains(disallowed, lower) {
		return nil, true, sc.errorf(diagnostic.KindUnsupportedType, "contains type %q which is not allowed.", lower)
	}

	if !slices.Contains(typedesc.Primitives, typedesc.PrimitiveName(lower)) {
		return nil, false, nil
	}

	switch {
	case lower == string(typedesc.Array) && !r.flags.AllowUntypedArrays:
		e := sc.errorf(diagnostic.KindUnsupportedType, `contains type "array" which is not allowed by default.`)
		e.Hints = []string{
			`Please document the type of the array, for example "string[]".`,
			"Alternatively, if you want to allow untyped arrays, and receive the raw JSON array, set AllowUntypedArrays to true.",
		}

		return nil, true, e

	case lower == string(typedesc.Object) && !r.flags.AllowUntypedObjects:
		e := sc.errorf(diagnostic.KindUnsupportedType, `contains type "object" which is not allowed by default.`)
		e.Hints = []string{
			"It is advised to map a JSON object to a Go struct.",
			"If you want to allow this, and receive the raw JSON object, set AllowUntypedObjects to true.",
		}

		return nil, true, e

	case lower == string(typedesc.Mixed) && !r.flags.AllowMixed:
		e := sc.errorf(diagnostic.KindUnsupportedType, `contains type "mixed" which is not allowed by default.`)
		e.Hints = []string{"If you want to allow this, and receive the raw JSON value, set AllowMixed to true."}

		return nil, true, e
	}

	return typedesc.Primitive{Name: typedesc.PrimitiveName(lower)}, true, nil
}

func (r *Resolver) native(t reflect.Type, sc scope) (*typedesc.Union, error) {
	atoms, err := r.nativeAtoms(t, sc)
	if err != nil {
		return nil, err
	}

	return newUnion(atoms, sc)
}

func (r *Resolver) nativeAtoms(t reflect.Type, sc scope) ([]typedesc.Atom, error) {
	if e, ok := r.reg.EnumFor(t); ok {
		a, err := enumAtom(e)
		if err != nil {
			return nil, err
		}

		return []typedesc.Atom{a}, nil
	}

	prim := func(name typedesc.PrimitiveName) ([]typedesc.Atom, error) {
		a, _, err := r.builtin(string(name), sc)
		if err != nil {
			return nil, err
		}

		return []typedesc.Atom{a}, nil
	}

	switch t {
	case valueType:
		return prim(typedesc.Mixed)
	case arrayType:
		return prim(typedesc.Array)
	case objectType:
		return prim(typedesc.Object)
	}

	switch t.Kind() {
	case reflect.Bool:
		return prim(typedesc.Bool)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return prim(typedesc.Int)

	case reflect.Float32, reflect.Float64:
		return prim(typedesc.Float)

	case reflect.String:
		return prim(typedesc.String)

	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Pointer {
			return nil, unsupported(t, sc)
		}

		atoms, err := r.nativeAtoms(t.Elem(), sc)
		if err != nil {
			return nil, err
		}

		if len(atoms) == 1 && atoms[0] == (typedesc.Primitive{Name: typedesc.Mixed}) {
			return atoms, nil
		}

		return append(atoms, typedesc.Primitive{Name: typedesc.Null}), nil

	case reflect.Slice:
		elem, err := r.native(t.Elem(), sc)
		if err != nil {
			return nil, err
		}

		return []typedesc.Atom{typedesc.ArrayOf{Elem: elem}}, nil

	case reflect.Interface:
		if t.NumMethod() == 0 {
			return prim(typedesc.Mixed)
		}

		return r.classAtom(t, sc)

	case reflect.Struct:
		return r.classAtom(t, sc)

	case reflect.Func:
		return r.disallowedAtom("callable", sc)

	case reflect.Chan:
		return r.disallowedAtom("iterable", sc)

	default:
		return nil, unsupported(t, sc)
	}
}

func (r *Resolver) classAtom(t reflect.Type, sc scope) ([]typedesc.Atom, error) {
	c, err := r.reg.ClassFor(t)
	if err != nil {
		return nil, diagnostic.Wrap(diagnostic.KindUnsupportedType, err,
			fmt.Sprintf("%s has unsupported Go type %s.", sc.subject, t), err.Error()+".")
	}

	return []typedesc.Atom{typedesc.Class{Name: c.Name}}, nil
}

func (r *Resolver) disallowedAtom(name string, sc scope) ([]typedesc.Atom, error) {
	_, _, err := r.builtin(name, sc)

	return nil, err
}

func unsupported(t reflect.Type, sc scope) error {
	e := sc.errorf(diagnostic.KindUnsupportedType, "has unsupported Go type %s.", t)
	e.Hints = []string{"Use a struct, a slice, a scalar or a single pointer, or document the type of the parameter."}

	return e
}

func enumAtom(e *introspect.Enum) (typedesc.Atom, error) {
	if e.Backing == typedesc.BackingNone {
		return nil, diagnostic.New(diagnostic.KindUnsupportedType, "Non-backed enums are not supported.")
	}

	return typedesc.Enum{Name: e.Name, Backing: e.Backing}, nil
}

func newUnion(atoms []typedesc.Atom, sc scope) (*typedesc.Union, error) {
	u, err := typedesc.NewUnion(atoms...)
	if err != nil {
		return nil, diagnostic.Wrap(diagnostic.KindTypeDefinition, err,
			sc.subject+" contains an invalid type: "+err.Error())
	}

	return u, nil
}
