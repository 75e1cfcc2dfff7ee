package mapper

import (
	"errors"
	"fmt"
	"strings"

	"json-mapper/diagnostic"
	"json-mapper/internal/match"
	"json-mapper/internal/typedesc"
	"json-mapper/internal/validation"
	"json-mapper/introspect"
	"json-mapper/jsonvalue"
	"json-mapper/options"
)

// buildObject constructs class c from a JSON object.
func (m *Mapper) buildObject(obj jsonvalue.Object, c *introspect.Class, path Path, depth int) (any, *diagnostic.Error) {
	if !c.HasConstructor() {
		return nil, noConstructor(c)
	}

	// definition errors take precedence over data errors
	unions := make([]*typedesc.Union, len(c.Params))

	for i, p := range c.Params {
		u, err := m.resolver.ParamType(c, p)
		if err != nil {
			return nil, asDiagnostic(err)
		}

		unions[i] = u
	}

	args := make([]any, len(c.Params))
	consumed := make(map[string]bool, len(c.Params))
	expected := make([]string, 0, len(c.Params))

	for i, p := range c.Params {
		name := m.goToJSON.MapName(p.Name)
		consumed[name] = true
		expected = append(expected, name)

		value, ok := obj.Get(name)
		if !ok {
			arg, derr := m.missing(p, unions[i], path.Field(name))
			if derr != nil {
				return nil, derr
			}

			args[i] = arg

			continue
		}

		arg, derr := m.mapValue(value, unions[i], path.Field(name), depth+1)
		if derr != nil {
			return nil, derr
		}

		args[i] = arg
	}

	if m.cfg.OnExtraFields == options.ExtraFieldsFail {
		for _, name := range obj.Names() {
			if !consumed[name] {
				return nil, m.unexpected(c, name, path.Field(name), expected)
			}
		}
	}

	res, err := c.Construct(args)
	if err != nil {
		return nil, m.constructError(c, err, path)
	}

	if m.cfg.ValidateObjects {
		if derr := validateObject(c, res, path); derr != nil {
			return nil, derr
		}
	}

	return res, nil
}

// missing applies the missing property policy.
func (m *Mapper) missing(p *introspect.Param, u *typedesc.Union, path Path) (any, *diagnostic.Error) {
	var hint string

	switch m.cfg.OnMissingFields {
	case options.MissingFieldsSetNull:
		if u.AllowsNull() {
			return nil, nil
		}

		hint = "The parameter does not allow null."

	case options.MissingFieldsSetDefault:
		if p.HasDefault {
			return p.Default(), nil
		}

		hint = "The parameter does not have a default value."

	default:
		hint = "If you want to allow missing properties, change the OnMissingFields option."
	}

	return nil, diagnostic.New(diagnostic.KindMissingField,
		fmt.Sprintf("Missing property %q in JSON data.", path.String()), hint).WithPath(path.String())
}

func (m *Mapper) unexpected(c *introspect.Class, name string, path Path, expected []string) *diagnostic.Error {
	e := diagnostic.New(diagnostic.KindUnexpectedField,
		fmt.Sprintf("Unexpected property %q in JSON data: %s does not have a corresponding %q parameter.",
			path.String(), c.Describe(), m.jsonToGo.MapName(name)),
		"If you want to allow extra properties, change the OnExtraFields option.",
	)

	if hint := match.Hint(match.Suggest(name, expected)); hint != "" {
		e.Hints = append(e.Hints, hint)
	}

	return e.WithPath(path.String())
}

// candidate is the outcome of one speculative construction.
type candidate struct {
	class string
	value any
	err   *diagnostic.Error
}

// buildOneOf constructs the single class among classes that accepts obj.
// Data errors of the candidates are collected; definition errors abort.
func (m *Mapper) buildOneOf(obj jsonvalue.Object, classes []typedesc.Class, path Path, depth int) (any, *diagnostic.Error) {
	var matches, failures []candidate

	for _, ct := range classes {
		c, derr := m.class(ct.Name)
		if derr != nil {
			return nil, derr
		}

		value, derr := m.buildObject(obj, c, path, depth)
		if derr != nil && derr.Kind.IsFatal() {
			return nil, derr
		}

		outcome := candidate{class: ct.Name, value: value, err: derr}
		if derr != nil {
			failures = append(failures, outcome)
		} else {
			matches = append(matches, outcome)
		}

		m.logger.Debug("candidate class tried", "path", path.String(), "class", ct.Name, "ok", derr == nil)
	}

	switch len(matches) {
	case 1:
		return matches[0].value, nil

	case 0:
		lines := make([]string, len(failures))
		for i, f := range failures {
			lines[i] = fmt.Sprintf(" - %s: %s", f.class, f.err.Message)
		}

		return nil, diagnostic.New(diagnostic.KindNoMatchingClass,
			"JSON object does not match any of the allowed classes:\n"+strings.Join(lines, "\n"),
		).WithPath(path.String())

	default:
		names := make([]string, len(matches))
		for i, c := range matches {
			names[i] = c.class
		}

		return nil, diagnostic.New(diagnostic.KindAmbiguousClass,
			fmt.Sprintf("JSON object matches multiple classes: %s.", strings.Join(names, ", ")),
		).WithPath(path.String())
	}
}

func (m *Mapper) class(name string) (*introspect.Class, *diagnostic.Error) {
	c, ok := m.reg.Class(name)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.KindUnknownType, "Class %s is not registered.", name)
	}

	return c, nil
}

func noConstructor(c *introspect.Class) *diagnostic.Error {
	return diagnostic.New(diagnostic.KindTypeDefinition,
		fmt.Sprintf("Class %s must have a constructor.", c.Name),
		"Register a constructor function for it, or document the concrete classes it may be.",
	)
}

func (m *Mapper) constructError(c *introspect.Class, err error, path Path) *diagnostic.Error {
	var (
		pe *introspect.ParamError
		ce *introspect.CallError
	)

	switch {
	case errors.As(err, &pe) && errors.Is(err, introspect.ErrOverflow):
		p := path.Field(m.goToJSON.MapName(pe.Param))
		if param, ok := c.Param(pe.Param); ok {
			return diagnostic.Wrap(diagnostic.KindValueTypeMismatch, err,
				fmt.Sprintf("Property %q is out of range for %s.", p.String(), param.Type)).WithPath(p.String())
		}

		return diagnostic.Wrap(diagnostic.KindValueTypeMismatch, err,
			fmt.Sprintf("Property %q is out of range.", p.String())).WithPath(p.String())

	case errors.As(err, &pe):
		return diagnostic.Wrap(diagnostic.KindTypeDefinition, err,
			fmt.Sprintf("Parameter %q of %s cannot receive the mapped value: %s.", pe.Param, c.Describe(), pe.Err),
			"The documented type must be compatible with the Go type of the parameter.",
		)

	case errors.As(err, &ce):
		return diagnostic.Wrap(diagnostic.KindConstructor, err,
			fmt.Sprintf("%s rejected the JSON data: %s.", c.Describe(), ce.Err)).WithPath(path.String())

	default:
		return diagnostic.Wrap(diagnostic.KindUnknown, err, err.Error())
	}
}

func validateObject(c *introspect.Class, obj any, path Path) *diagnostic.Error {
	failures, err := validation.Struct(obj)
	if err != nil || len(failures) == 0 {
		// not a struct: nothing to validate
		return nil
	}

	where := "JSON object"
	if !path.IsRoot() {
		where = fmt.Sprintf("Property %q", path.String())
	}

	return diagnostic.New(diagnostic.KindValidation,
		fmt.Sprintf("%s does not satisfy the validation rules of %s.", where, c.Name),
		failures...,
	).WithPath(path.String())
}

func asDiagnostic(err error) *diagnostic.Error {
	if de, ok := diagnostic.As(err); ok {
		return de
	}

	return diagnostic.Wrap(diagnostic.KindUnknown, err, err.Error())
}
