package mapper

import (
	"fmt"

	"json-mapper/diagnostic"
	"json-mapper/internal/match"
	"json-mapper/internal/typedesc"
	"json-mapper/introspect"
	"json-mapper/jsonvalue"
)

// mapValue maps a JSON value against the union type of its parameter.
// depth counts the values between the document and v.
func (m *Mapper) mapValue(v jsonvalue.Value, u *typedesc.Union, path Path, depth int) (any, *diagnostic.Error) {
	if depth > m.cfg.MaxDepth {
		return nil, diagnostic.New(diagnostic.KindDepthExceeded,
			fmt.Sprintf("Maximum nesting depth of %d exceeded at property %q.", m.cfg.MaxDepth, path.String()),
			"Increase MaxDepth if documents are legitimately this deep.",
		).WithPath(path.String())
	}

	if u.AllowsMixed() {
		return v, nil
	}

	switch v := v.(type) {
	case jsonvalue.Object:
		if u.AllowsRawObject() {
			return v, nil
		}

		classes := u.Classes()

		switch len(classes) {
		case 0:
			return nil, mismatchf(path, "Property %q is an object, but the parameter does not accept objects.", path.String())
		case 1:
			c, derr := m.class(classes[0].Name)
			if derr != nil {
				return nil, derr
			}

			return m.buildObject(v, c, path, depth)
		default:
			return m.buildOneOf(v, classes, path, depth)
		}

	case jsonvalue.Array:
		if u.AllowsRawArray() {
			return v, nil
		}

		arr := u.Array()
		if arr == nil {
			return nil, mismatchf(path, "Property %q is an array, but the parameter does not accept arrays.", path.String())
		}

		items := make([]any, len(v))

		for i, elem := range v {
			item, derr := m.mapValue(elem, arr.Elem, path.Index(i), depth+1)
			if derr != nil {
				return nil, derr
			}

			items[i] = item
		}

		return items, nil

	case jsonvalue.String:
		if u.AllowsString() {
			return string(v), nil
		}

		if e, ok := u.EnumFor(typedesc.BackingString); ok {
			return m.enumMember(e, string(v), path)
		}

		return nil, cannotBe(path, "a string")

	case jsonvalue.Int:
		if u.AllowsInt() {
			return int64(v), nil
		}

		if e, ok := u.EnumFor(typedesc.BackingInt); ok {
			return m.enumMember(e, int64(v), path)
		}

		return nil, cannotBe(path, "an int")

	case jsonvalue.Float:
		if u.AllowsFloat() {
			return float64(v), nil
		}

		return nil, cannotBe(path, "a float")

	case jsonvalue.Null:
		if u.AllowsNull() {
			return nil, nil
		}

		return nil, cannotBe(path, "null")

	case jsonvalue.Bool:
		if v && u.AllowsTrue() {
			return true, nil
		}

		if !v && u.AllowsFalse() {
			return false, nil
		}

		if v {
			return nil, cannotBe(path, "true")
		}

		return nil, cannotBe(path, "false")

	default:
		panic(fmt.Sprintf("unreachable: unexpected JSON value %T", v))
	}
}

// enumMember looks up the member of e tagged tag.
func (m *Mapper) enumMember(et typedesc.Enum, tag any, path Path) (any, *diagnostic.Error) {
	e, ok := m.reg.Enum(et.Name)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.KindUnknownType, "Enum %s is not registered.", et.Name)
	}

	if member, ok := e.From(tag); ok {
		return member, nil
	}

	de := diagnostic.New(diagnostic.KindEnumTagNotFound,
		fmt.Sprintf("Property %q has unknown value %s for enum %s.", path.String(), introspect.FormatTag(tag), e.Name),
	)

	if s, ok := tag.(string); ok {
		if hint := match.Hint(match.Suggest(s, e.Tags())); hint != "" {
			de.Hints = append(de.Hints, hint)
		}
	}

	return nil, de.WithPath(path.String())
}

func cannotBe(path Path, what string) *diagnostic.Error {
	return mismatchf(path, "Property %q cannot be %s.", path.String(), what)
}

func mismatchf(path Path, format string, args ...any) *diagnostic.Error {
	return diagnostic.Errorf(diagnostic.KindValueTypeMismatch, format, args...).WithPath(path.String())
}
