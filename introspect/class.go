package introspect

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/go-json-experiment/json"
)

// Struct tags read from class fields.
const (
	TagJSON    = "json"
	TagType    = "jsontype"
	TagDefault = "default"
)

var errorType = reflect.TypeFor[error]()

// closures are named "pkg.Outer.func1", "pkg.init.func2.1" or "pkg.glob..func3"
var closureName = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// Class is a constructible type.
type Class struct {
	// Canonical name, see TypeName.
	Name string
	// The struct, interface or named type the class produces.
	Type   reflect.Type
	Params []*Param

	ctor     reflect.Value
	funcName string
	closure  bool
	hasErr   bool
}

// Param is one constructor parameter.
type Param struct {
	Name  string
	Index int
	// Native Go type.
	Type reflect.Type
	// Documented type expressions. More than one is a definition error.
	Docs []string

	HasDefault bool

	def   any
	field []int
}

// Default returns a copy of the default value. Pointers, slices and maps are
// fresh on every call so mapped objects never share them.
func (p *Param) Default() any {
	if p.def == nil {
		return nil
	}

	return copyValue(reflect.ValueOf(p.def)).Interface()
}

func copyValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}

		c := reflect.New(v.Type().Elem())
		c.Elem().Set(copyValue(v.Elem()))

		return c

	case reflect.Slice:
		if v.IsNil() {
			return v
		}

		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := range v.Len() {
			c.Index(i).Set(copyValue(v.Index(i)))
		}

		return c

	case reflect.Map:
		if v.IsNil() {
			return v
		}

		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		for it := v.MapRange(); it.Next(); {
			c.SetMapIndex(it.Key(), copyValue(it.Value()))
		}

		return c

	case reflect.Array:
		c := reflect.New(v.Type()).Elem()
		for i := range v.Len() {
			c.Index(i).Set(copyValue(v.Index(i)))
		}

		return c

	case reflect.Struct:
		c := reflect.New(v.Type()).Elem()
		c.Set(v)

		// unexported fields keep the shallow copy
		for i := range v.NumField() {
			if f := c.Field(i); f.CanSet() {
				f.Set(copyValue(v.Field(i)))
			}
		}

		return c

	case reflect.Interface:
		if v.IsNil() {
			return v
		}

		c := reflect.New(v.Type()).Elem()
		c.Set(copyValue(v.Elem()))

		return c

	default:
		return v
	}
}

// HasConstructor reports whether the class can be constructed.
func (c *Class) HasConstructor() bool {
	return c.Type.Kind() == reflect.Struct || c.ctor.IsValid()
}

// FuncName returns the full name of the constructor function, or "" for
// struct classes.
func (c *Class) FuncName() string { return c.funcName }

// Closure reports whether the constructor is an anonymous function.
func (c *Class) Closure() bool { return c.closure }

// Scope returns the package path names in documented types are relative to.
func (c *Class) Scope() string {
	if c.funcName != "" {
		return funcPackage(c.funcName)
	}

	return c.Type.PkgPath()
}

// Describe names the declaring function of the class parameters in messages.
func (c *Class) Describe() string {
	if c.funcName != "" {
		return c.funcName + "()"
	}

	return c.Name
}

// Param returns the parameter with the given name.
func (c *Class) Param(name string) (*Param, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// ParamNames returns the parameter names in declaration order.
func (c *Class) ParamNames() []string {
	names := make([]string, len(c.Params))
	for i, p := range c.Params {
		names[i] = p.Name
	}

	return names
}

// CallError wraps an error returned by a constructor function.
type CallError struct {
	Class string
	Err   error
}

func (e *CallError) Error() string { return e.Class + ": " + e.Err.Error() }
func (e *CallError) Unwrap() error { return e.Err }

// ParamError reports an argument that cannot be assigned to its parameter.
type ParamError struct {
	Param string
	Err   error
}

func (e *ParamError) Error() string { return fmt.Sprintf("parameter %q: %s", e.Param, e.Err) }
func (e *ParamError) Unwrap() error { return e.Err }

// Construct builds an object from one argument per parameter, in order.
// Struct classes produce a *T; constructor functions produce what they return.
func (c *Class) Construct(args []any) (any, error) {
	if !c.HasConstructor() {
		return nil, fmt.Errorf("class %s has no constructor", c.Name)
	}

	if len(args) != len(c.Params) {
		return nil, fmt.Errorf("class %s takes %d arguments, got %d", c.Name, len(c.Params), len(args))
	}

	values := make([]reflect.Value, len(args))

	for i, p := range c.Params {
		v, err := Assign(args[i], p.Type)
		if err != nil {
			return nil, &ParamError{Param: p.Name, Err: err}
		}

		values[i] = v
	}

	if !c.ctor.IsValid() {
		obj := reflect.New(c.Type)
		for i, p := range c.Params {
			obj.Elem().FieldByIndex(p.field).Set(values[i])
		}

		return obj.Interface(), nil
	}

	out := c.ctor.Call(values)
	if c.hasErr && !out[1].IsNil() {
		return nil, &CallError{Class: c.Name, Err: out[1].Interface().(error)}
	}

	return out[0].Interface(), nil
}

func (c *Class) annotate(docs map[string]string) {
	for name, doc := range docs {
		if p, ok := c.Param(name); ok {
			p.Docs = append(p.Docs, doc)
		}
	}
}

func newStructClass(t reflect.Type) (*Class, error) {
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnnamedType, t)
	}

	c := &Class{Name: TypeName(t), Type: t}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, ok := FieldParamName(f.Tag, f.Name)
		if !ok {
			continue
		}

		p := &Param{Name: name, Index: len(c.Params), Type: f.Type, field: f.Index}

		if doc, ok := f.Tag.Lookup(TagType); ok {
			p.Docs = append(p.Docs, doc)
		}

		if def, ok := f.Tag.Lookup(TagDefault); ok {
			v, err := parseDefault(def, f.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: invalid default %q: %w", c.Name, f.Name, def, err)
			}

			p.HasDefault = true
			p.def = v
		}

		c.Params = append(c.Params, p)
	}

	return c, nil
}

// FieldParamName returns the parameter name of a struct field: the name of
// its json tag, or the field name. ok is false for fields tagged `json:"-"`.
func FieldParamName(tag reflect.StructTag, field string) (name string, ok bool) {
	name, _, _ = strings.Cut(tag.Get(TagJSON), ",")

	switch name {
	case "-":
		return "", false
	case "":
		return field, true
	default:
		return name, true
	}
}

// parseDefault reads a default tag: string kinds take the text as is, every
// other type is decoded from JSON.
func parseDefault(text string, t reflect.Type) (any, error) {
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	if base.Kind() == reflect.String {
		v := reflect.ValueOf(text).Convert(base)
		if base == t {
			return v.Interface(), nil
		}

		p := reflect.New(base)
		p.Elem().Set(v)

		return p.Interface(), nil
	}

	p := reflect.New(t)
	if err := json.Unmarshal([]byte(text), p.Interface()); err != nil {
		return nil, err
	}

	return p.Elem().Interface(), nil
}

type ctorConfig struct {
	names    []string
	docs     map[string][]string
	defaults map[string]any
}

// ConstructorOption configures RegisterConstructor.
type ConstructorOption func(*ctorConfig)

// ParamNames names the constructor parameters, in order.
func ParamNames(names ...string) ConstructorOption {
	return func(c *ctorConfig) { c.names = names }
}

// WithDoc documents the type of a parameter with a type expression.
func WithDoc(param, expr string) ConstructorOption {
	return func(c *ctorConfig) { c.docs[param] = append(c.docs[param], expr) }
}

// WithDefault gives a parameter a default value.
func WithDefault(param string, value any) ConstructorOption {
	return func(c *ctorConfig) { c.defaults[param] = value }
}

func newFuncClass(fn any, opts []ConstructorOption) (*Class, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return nil, ErrNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.IsVariadic() {
		return nil, ErrVariadic
	}

	c := &Class{ctor: fnVal}

	switch {
	case fnType.NumOut() == 1:
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
		c.hasErr = true
	default:
		return nil, ErrNotAConstructor
	}

	c.Type = fnType.Out(0)
	if c.Type.Kind() == reflect.Pointer {
		c.Type = c.Type.Elem()

		if c.Type.Kind() == reflect.Pointer {
			return nil, ErrDoublePointer
		}
	}

	if c.Type.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnnamedType, c.Type)
	}

	c.Name = TypeName(c.Type)
	c.funcName = runtime.FuncForPC(fnVal.Pointer()).Name()
	c.closure = closureName.MatchString(c.funcName)

	cfg := ctorConfig{docs: map[string][]string{}, defaults: map[string]any{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(cfg.names) != fnType.NumIn() {
		return nil, fmt.Errorf("%w: %s takes %d parameters, %d names given",
			ErrParamNames, c.funcName, fnType.NumIn(), len(cfg.names))
	}

	for i, name := range cfg.names {
		c.Params = append(c.Params, &Param{
			Name:  name,
			Index: i,
			Type:  fnType.In(i),
			Docs:  cfg.docs[name],
		})
	}

	var unknown []error

	for name := range cfg.docs {
		if _, ok := c.Param(name); !ok {
			unknown = append(unknown, fmt.Errorf("%w %q in WithDoc", ErrUnknownParam, name))
		}
	}

	for name, v := range cfg.defaults {
		p, ok := c.Param(name)
		if !ok {
			unknown = append(unknown, fmt.Errorf("%w %q in WithDefault", ErrUnknownParam, name))
			continue
		}

		p.HasDefault = true
		p.def = v
	}

	if err := errors.Join(unknown...); err != nil {
		return nil, err
	}

	return c, nil
}

// funcPackage extracts the package path from a runtime function name such
// as "json-mapper/examples/shop.NewPerson" or "example.com/a.b/c.New".
func funcPackage(funcName string) string {
	dir, file := path.Split(funcName)
	pkg, _, _ := strings.Cut(file, ".")

	return dir + pkg
}
