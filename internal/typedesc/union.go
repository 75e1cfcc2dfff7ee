package typedesc

import (
	"errors"
	"fmt"
	"strings"
)

// Union is a validated combination of atoms.
// For simplicity, even a single type is represented as a union with a single
// element. A Union is immutable once created.
type Union struct {
	atoms []Atom

	allowsInt       bool
	allowsFloat     bool
	allowsString    bool
	allowsTrue      bool
	allowsFalse     bool
	allowsNull      bool
	allowsRawArray  bool
	allowsRawObject bool
	allowsMixed     bool

	classes []Class
	// At most one enum per backing kind.
	enums []Enum
	// At most one typed array.
	array *ArrayOf
}

// NewUnion validates atoms and builds a Union.
// The returned error describes the first violated rule.
func NewUnion(atoms ...Atom) (*Union, error) {
	if len(atoms) == 0 {
		return nil, errors.New("Union type cannot be empty.")
	}

	if err := ensureNoDuplicates(atoms); err != nil {
		return nil, err
	}

	u := &Union{atoms: append([]Atom(nil), atoms...)}

	has := make(map[PrimitiveName]bool)

	var arrays []ArrayOf

	for _, a := range atoms {
		switch a := a.(type) {
		case Primitive:
			has[a.Name] = true
		case Class:
			u.classes = append(u.classes, a)
		case Enum:
			u.enums = append(u.enums, a)
		case ArrayOf:
			arrays = append(arrays, a)
		}
	}

	// Ints are accepted where floats are: JSON has a single number type and
	// an integral literal is a valid float.
	u.allowsInt = has[Int] || has[Float] || has[Mixed]
	u.allowsFloat = has[Float] || has[Mixed]
	u.allowsString = has[String] || has[Mixed]
	u.allowsTrue = has[True] || has[Bool] || has[Mixed]
	u.allowsFalse = has[False] || has[Bool] || has[Mixed]
	u.allowsNull = has[Null] || has[Mixed]
	u.allowsRawArray = has[Array] || has[Mixed]
	u.allowsRawObject = has[Object] || has[Mixed]
	u.allowsMixed = has[Mixed]

	var hasIntBackedEnum, hasStringBackedEnum bool

	for _, e := range u.enums {
		switch e.Backing {
		case BackingInt:
			if has[Int] {
				return nil, errors.New(`Cannot use int-backed enum together with "int" in a union.`)
			}

			if hasIntBackedEnum {
				return nil, errors.New("At most one int-backed enum is allowed in a union.")
			}

			hasIntBackedEnum = true

		case BackingString:
			if has[String] {
				return nil, errors.New(`Cannot use string-backed enum together with "string" in a union.`)
			}

			if hasStringBackedEnum {
				return nil, errors.New("At most one string-backed enum is allowed in a union.")
			}

			hasStringBackedEnum = true

		default:
			return nil, fmt.Errorf("Enum %s must be either int or string backed.", e.Name)
		}
	}

	switch len(arrays) {
	case 0:
	case 1:
		u.array = &arrays[0]
	default:
		return nil, errors.New(`At most one typed array "[]" is allowed in a union.`)
	}

	if has[Mixed] && len(atoms) > 1 {
		return nil, errors.New(`Cannot use "mixed" together with other types in a union.`)
	}

	if has[Bool] {
		if has[True] {
			return nil, errors.New(`Type "true" is redundant with "bool".`)
		}

		if has[False] {
			return nil, errors.New(`Type "false" is redundant with "bool".`)
		}
	}

	if has[True] && has[False] {
		return nil, errors.New(`Type contains both "true" and "false", "bool" should be used instead.`)
	}

	if has[Array] && u.array != nil {
		return nil, errors.New(`Cannot use untyped "array" together with a typed array "[]" in a union.`)
	}

	if has[Object] && len(u.classes) > 0 {
		return nil, errors.New(`Cannot use untyped "object" together with a typed class in a union.`)
	}

	return u, nil
}

func ensureNoDuplicates(atoms []Atom) error {
	seen := make(map[string]bool, len(atoms))

	for _, a := range atoms {
		s := a.String()
		if seen[s] {
			return fmt.Errorf(`Duplicate type "%s" is redundant.`, s)
		}

		seen[s] = true
	}

	return nil
}

// Atoms returns the atoms in declaration order.
func (u *Union) Atoms() []Atom { return append([]Atom(nil), u.atoms...) }

func (u *Union) AllowsInt() bool       { return u.allowsInt }
func (u *Union) AllowsFloat() bool     { return u.allowsFloat }
func (u *Union) AllowsString() bool    { return u.allowsString }
func (u *Union) AllowsTrue() bool      { return u.allowsTrue }
func (u *Union) AllowsFalse() bool     { return u.allowsFalse }
func (u *Union) AllowsNull() bool      { return u.allowsNull }
func (u *Union) AllowsRawArray() bool  { return u.allowsRawArray }
func (u *Union) AllowsRawObject() bool { return u.allowsRawObject }
func (u *Union) AllowsMixed() bool     { return u.allowsMixed }

// Classes returns the class candidates in declaration order.
func (u *Union) Classes() []Class { return u.classes }

// Enums returns the enum atoms (at most one int-backed, one string-backed).
func (u *Union) Enums() []Enum { return u.enums }

// EnumFor returns the enum backed by the given kind, if any.
func (u *Union) EnumFor(b Backing) (Enum, bool) {
	for _, e := range u.enums {
		if e.Backing == b {
			return e, true
		}
	}

	return Enum{}, false
}

// Array returns the typed array atom, or nil.
func (u *Union) Array() *ArrayOf { return u.array }

// String renders the union in the type expression grammar.
func (u *Union) String() string {
	parts := make([]string, len(u.atoms))
	for i, a := range u.atoms {
		parts[i] = a.String()
	}

	return strings.Join(parts, "|")
}
