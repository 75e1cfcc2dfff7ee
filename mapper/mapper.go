// Package mapper maps JSON documents to registered classes.
//
// A document is decoded into a jsonvalue tree, then the object builder walks
// the constructor parameters of the target class: each parameter type is
// resolved to a union descriptor and the matching JSON property is mapped
// against it, constructing nested objects on the way. When a JSON object may
// be one of several classes, every candidate is tried and exactly one must
// succeed.
package mapper

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"json-mapper/diagnostic"
	"json-mapper/internal/match"
	"json-mapper/internal/resolve"
	"json-mapper/internal/typedesc"
	"json-mapper/introspect"
	"json-mapper/jsonvalue"
	"json-mapper/namemap"
	"json-mapper/options"
)

// Mapper maps JSON to objects of registered classes.
// It is safe for concurrent use once created.
type Mapper struct {
	reg      *introspect.Registry
	cfg      options.Config
	resolver *resolve.Resolver
	logger   *slog.Logger

	jsonToGo namemap.Mapper
	goToJSON namemap.Mapper
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithConfig replaces the default configuration.
func WithConfig(cfg options.Config) Option {
	return func(m *Mapper) { m.cfg = cfg }
}

// WithLogger sets the logger used for debug records. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) { m.logger = logger }
}

// WithNameMappers sets the name translation strategies, taking precedence
// over the strategies named in the configuration.
func WithNameMappers(jsonToGo, goToJSON namemap.Mapper) Option {
	return func(m *Mapper) {
		m.jsonToGo = jsonToGo
		m.goToJSON = goToJSON
	}
}

// New returns a Mapper over the classes of reg.
func New(reg *introspect.Registry, opts ...Option) (*Mapper, error) {
	m := &Mapper{
		reg:    reg,
		cfg:    options.Default(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	if m.jsonToGo == nil || m.goToJSON == nil {
		jsonToGo, goToJSON, err := m.cfg.NameMappers()
		if err != nil {
			return nil, err
		}

		if m.jsonToGo == nil {
			m.jsonToGo = jsonToGo
		}

		if m.goToJSON == nil {
			m.goToJSON = goToJSON
		}
	}

	m.resolver = resolve.New(reg, resolve.Flags{
		AllowUntypedArrays:  m.cfg.AllowUntypedArrays,
		AllowUntypedObjects: m.cfg.AllowUntypedObjects,
		AllowMixed:          m.cfg.AllowMixed,
	}, m.logger)

	return m, nil
}

// Config returns the configuration in use.
func (m *Mapper) Config() options.Config { return m.cfg }

// Map decodes a JSON document and maps it to the target class. target is a
// canonical class name, a short "pkg.Name" form or an alias.
// Errors are *diagnostic.Error values.
func (m *Mapper) Map(data []byte, target string) (any, error) {
	v, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, err
	}

	return m.MapValue(v, target)
}

// MapYAML maps a YAML document the way Map maps JSON.
func (m *Mapper) MapYAML(data []byte, target string) (any, error) {
	v, err := jsonvalue.DecodeYAML(data)
	if err != nil {
		return nil, err
	}

	return m.MapValue(v, target)
}

// MapValue maps a decoded document, which must be an object.
func (m *Mapper) MapValue(v jsonvalue.Value, target string) (any, error) {
	if v == nil {
		return nil, diagnostic.New(diagnostic.KindValueTypeMismatch,
			"Unexpected JSON data: expected object, got nothing.")
	}

	obj, ok := v.(jsonvalue.Object)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.KindValueTypeMismatch,
			"Unexpected JSON data: expected object, got %s.", v.Kind())
	}

	c, err := m.targetClass(target)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("mapping document", "class", c.Name)

	res, derr := m.buildObject(obj, c, Path{}, 0)
	if derr != nil {
		return nil, derr
	}

	return res, nil
}

// Into maps a JSON document to T, which is a registered class type or a
// pointer to one. Struct types are registered on first use.
func Into[T any](m *Mapper, data []byte) (T, error) {
	var zero T

	t := reflect.TypeFor[T]()

	c, err := m.reg.ClassFor(t)
	if err != nil {
		return zero, diagnostic.Wrap(diagnostic.KindUnsupportedType, err,
			fmt.Sprintf("Type %s cannot be a mapping target.", t), err.Error()+".")
	}

	obj, err := m.Map(data, c.Name)
	if err != nil {
		return zero, err
	}

	v, err := introspect.Assign(obj, t)
	if err != nil {
		return zero, diagnostic.Wrap(diagnostic.KindTypeDefinition, err,
			fmt.Sprintf("Class %s produced %T, which is not a %s.", c.Name, obj, t))
	}

	return v.Interface().(T), nil
}

func (m *Mapper) targetClass(target string) (*introspect.Class, error) {
	name, ok := m.reg.Qualify(target, "")
	if ok {
		if c, ok := m.reg.Class(name); ok {
			return c, nil
		}
	}

	e := diagnostic.Errorf(diagnostic.KindUnknownType, "Invalid class name: %s.", target)
	if hint := match.Hint(match.Suggest(target, m.reg.Names(""))); hint != "" {
		e.Hints = append(e.Hints, hint)
	}

	return nil, e
}

// Check resolves the parameter types of the target class and of every class
// reachable from it, and reports every definition error without reading any
// JSON.
func (m *Mapper) Check(target string) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	root, err := m.targetClass(target)
	if err != nil {
		diags.Add(err)
		return diags
	}

	seen := map[string]bool{root.Name: true}
	queue := []*introspect.Class{root}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if !c.HasConstructor() {
			diags.Add(noConstructor(c))
			continue
		}

		for _, p := range c.Params {
			u, err := m.resolver.ParamType(c, p)
			if err != nil {
				diags.Add(err)
				continue
			}

			for _, name := range classNames(u) {
				if seen[name] {
					continue
				}

				seen[name] = true

				if next, ok := m.reg.Class(name); ok {
					queue = append(queue, next)
				}
			}
		}
	}

	return diags
}

// classNames lists the classes a union may construct, including array elements.
func classNames(u *typedesc.Union) []string {
	var names []string

	for _, c := range u.Classes() {
		names = append(names, c.Name)
	}

	if a := u.Array(); a != nil {
		names = append(names, classNames(a.Elem)...)
	}

	return names
}
