// Package typedesc holds the resolved form of a declared type: a closed set of
// atom variants and the validated Union that combines them.
package typedesc

import (
	"json-mapper/internal/common"
)

// Atom is one admissible type of a Union.
// The set of implementations is closed: Primitive, Class, Enum and ArrayOf.
type Atom interface {
	String() string
	atom()
}

// PrimitiveName is the name of a builtin type.
type PrimitiveName string

const (
	Int    PrimitiveName = "int"
	Float  PrimitiveName = "float"
	String PrimitiveName = "string"
	Bool   PrimitiveName = "bool"
	True   PrimitiveName = "true"
	False  PrimitiveName = "false"
	Null   PrimitiveName = "null"
	Array  PrimitiveName = "array"
	Object PrimitiveName = "object"
	Mixed  PrimitiveName = "mixed"
)

// Primitives lists every allowed builtin type name.
var Primitives = []PrimitiveName{Int, Float, String, Bool, True, False, Null, Array, Object, Mixed}

// Primitive is a builtin type.
type Primitive struct {
	Name PrimitiveName
}

func (p Primitive) String() string { return string(p.Name) }

// Class is a reference to a registered class, by fully qualified name.
type Class struct {
	Name string
}

func (c Class) String() string { return c.Name }

// Backing is the kind of tag carried by the members of an enum.
type Backing int

const (
	BackingNone Backing = iota
	BackingInt
	BackingString
)

// String returns a human-readable backing name.
func (b Backing) String() string {
	switch b {
	case BackingNone:
		return "none"
	case BackingInt:
		return "int"
	case BackingString:
		return "string"
	default:
		return common.UnknownStr
	}
}

// Enum is a reference to a backed enum, by fully qualified name.
type Enum struct {
	Name    string
	Backing Backing
}

func (e Enum) String() string { return e.Name }

// ArrayOf is a typed array; every element must match Elem.
type ArrayOf struct {
	Elem *Union
}

func (a ArrayOf) String() string {
	if len(a.Elem.atoms) == 1 {
		return a.Elem.String() + "[]"
	}

	return "(" + a.Elem.String() + ")[]"
}

func (Primitive) atom() {}
func (Class) atom()     {}
func (Enum) atom()      {}
func (ArrayOf) atom()   {}
