// Package introspect is the reflection facility behind the mapper: it knows
// the classes and enums a JSON document may be mapped to, lists their
// constructor parameters with their documented types and defaults, and
// constructs objects from ordered argument values.
//
// A class is either a Go struct type, whose exported fields in declaration
// order are its parameters, or a registered constructor function. A
// non-empty interface type is a class without a constructor: it can name a
// family of classes in a documented type, but it cannot be constructed.
package introspect

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNotAFunction    = errors.New("constructor is not a function")
	ErrNotAConstructor = errors.New("constructor must return T or (T, error)")
	ErrVariadic        = errors.New("variadic constructors are not supported")
	ErrParamNames      = errors.New("parameter names do not match the constructor arity")
	ErrUnknownParam    = errors.New("unknown parameter")
	ErrUnnamedType     = errors.New("class types must be named")
	ErrNotAClass       = errors.New("type cannot be a class")
	ErrDoublePointer   = errors.New("double pointers are not supported")
	ErrDuplicate       = errors.New("name is already registered")
)

// Registry holds the known classes and enums. It is safe for concurrent use.
// Struct and interface classes are registered on first use; constructor
// functions, enums and aliases must be registered explicitly.
type Registry struct {
	mu sync.RWMutex

	classes     map[string]*Class
	classByType map[reflect.Type]*Class
	enums       map[string]*Enum
	enumByType  map[reflect.Type]*Enum
	// short "pkg.Name" form to canonical names; several entries mean the
	// short form is ambiguous
	short   map[string][]string
	aliases map[string]string
	// documented types waiting for their class to be registered
	pending Annotations
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:     map[string]*Class{},
		classByType: map[reflect.Type]*Class{},
		enums:       map[string]*Enum{},
		enumByType:  map[reflect.Type]*Enum{},
		short:       map[string][]string{},
		aliases:     map[string]string{},
		pending:     Annotations{},
	}
}

// TypeName returns the canonical name of a named type: its package path and
// its name joined by a dot, e.g. "json-mapper/examples/shop.Person".
func TypeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}

	return t.PkgPath() + "." + t.Name()
}

// ShortName strips the directories of the package path from a canonical
// name: "json-mapper/examples/shop.Person" becomes "shop.Person".
func ShortName(canonical string) string {
	return path.Base(canonical)
}

// Register registers the struct or interface type of every sample. Samples
// may be values, pointers, or typed nil pointers such as (*shop.Customer)(nil).
func (r *Registry) Register(samples ...any) error {
	for _, s := range samples {
		t := reflect.TypeOf(s)
		if t == nil {
			return fmt.Errorf("%w: nil sample", ErrNotAClass)
		}

		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		if _, err := r.ClassFor(t); err != nil {
			return err
		}
	}

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(samples ...any) *Registry {
	if err := r.Register(samples...); err != nil {
		panic(err)
	}

	return r
}

// ClassFor returns the class of a struct or non-empty interface type,
// registering it on first use. A single pointer is dereferenced.
func (r *Registry) ClassFor(t reflect.Type) (*Class, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		if t.Kind() == reflect.Pointer {
			return nil, ErrDoublePointer
		}
	}

	r.mu.RLock()
	c, ok := r.classByType[t]
	r.mu.RUnlock()

	if ok {
		return c, nil
	}

	switch t.Kind() {
	case reflect.Struct:
		c, err := newStructClass(t)
		if err != nil {
			return nil, err
		}

		return r.add(c)

	case reflect.Interface:
		if t.NumMethod() == 0 {
			return nil, fmt.Errorf("%w: %s is an empty interface", ErrNotAClass, t)
		}

		if t.Name() == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnnamedType, t)
		}

		return r.add(&Class{Name: TypeName(t), Type: t})

	default:
		return nil, fmt.Errorf("%w: %s", ErrNotAClass, t)
	}
}

// RegisterConstructor registers fn as the constructor of the type it returns.
// fn must have the form func(...) T or func(...) (T, error), where T is a
// named type or a pointer to one. Parameter names are given with ParamNames.
// A constructor replaces the struct fields of T as the class parameters.
func (r *Registry) RegisterConstructor(fn any, opts ...ConstructorOption) (*Class, error) {
	c, err := newFuncClass(fn, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.classByType[c.Type]; ok && prev.ctor.IsValid() {
		return nil, fmt.Errorf("%w: %s already has constructor %s", ErrDuplicate, c.Name, prev.funcName)
	}

	r.insertLocked(c)

	return c, nil
}

// Alias makes alias resolve to the canonical name target.
func (r *Registry) Alias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.aliases[alias]; ok {
		return fmt.Errorf("%w: alias %q", ErrDuplicate, alias)
	}

	r.aliases[alias] = target

	return nil
}

// Class returns the class registered under a canonical name.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]

	return c, ok
}

// Enum returns the enum registered under a canonical name.
func (r *Registry) Enum(name string) (*Enum, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enums[name]

	return e, ok
}

// EnumFor returns the enum registered for a Go type.
func (r *Registry) EnumFor(t reflect.Type) (*Enum, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.enumByType[t]

	return e, ok
}

// Qualify resolves a name written in a documented type to a canonical name.
// scope is the package path of the declaring class. Lookup order:
//   - the canonical name itself
//   - the short "pkg.Name" form, when unambiguous
//   - a bare name relative to scope
//   - aliases
func (r *Registry) Qualify(name, scope string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.knownLocked(name) {
		return name, true
	}

	if names := r.short[name]; len(names) == 1 {
		return names[0], true
	}

	if scope != "" && !strings.Contains(name, ".") {
		if fq := scope + "." + name; r.knownLocked(fq) {
			return fq, true
		}
	}

	if target, ok := r.aliases[name]; ok && r.knownLocked(target) {
		return target, true
	}

	return "", false
}

// Names returns the names a documented type in scope may use, for
// suggestions: short names, aliases, and bare names of the scope package.
func (r *Registry) Names(scope string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string

	for s := range r.short {
		names = append(names, s)
	}

	for a := range r.aliases {
		names = append(names, a)
	}

	prefix := scope + "."

	for fq := range r.classes {
		if rest, ok := strings.CutPrefix(fq, prefix); ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}

	for fq := range r.enums {
		if rest, ok := strings.CutPrefix(fq, prefix); ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}

	slices.Sort(names)

	return slices.Compact(names)
}

func (r *Registry) knownLocked(name string) bool {
	if _, ok := r.classes[name]; ok {
		return true
	}

	_, ok := r.enums[name]

	return ok
}

func (r *Registry) add(c *Class) (*Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// lost a race with another registration of the same type
	if prev, ok := r.classByType[c.Type]; ok {
		return prev, nil
	}

	r.insertLocked(c)

	return c, nil
}

func (r *Registry) insertLocked(c *Class) {
	if _, ok := r.classes[c.Name]; !ok {
		s := ShortName(c.Name)
		r.short[s] = append(r.short[s], c.Name)
	}

	r.classes[c.Name] = c
	r.classByType[c.Type] = c

	if docs, ok := r.pending[c.Name]; ok {
		c.annotate(docs)
		delete(r.pending, c.Name)
	}
}
