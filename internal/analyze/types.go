package analyze

import (
	"go/token"

	"json-mapper/introspect"
)

// Directive prefixes.
const (
	PrefixType  = "//jsonmap:type"
	PrefixAlias = "//jsonmap:alias"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "json-mapper/examples/shop"
	Name    string // e.g., "Order"
}

// String returns the canonical class name of the type.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Kind is the kind of a directive.
type Kind string

const (
	KindType  Kind = "type"
	KindAlias Kind = "alias"
)

// Directive is one directive found in source.
type Directive struct {
	Kind  Kind
	Class TypeID
	// Field and Param are set for type directives: the Go field name and
	// the parameter name it maps to.
	Field string
	Param string
	// Type expression of a type directive, or alias name.
	Value string
	Pos   token.Position
}

// Result holds the directives of the loaded packages, in source order.
type Result struct {
	Packages   []string
	Directives []Directive
}

// AnnotationFile converts the directives to an annotation file that a
// registry can apply.
func (r *Result) AnnotationFile() *introspect.AnnotationFile {
	af := &introspect.AnnotationFile{
		Version: "1",
		Classes: introspect.Annotations{},
		Aliases: map[string]string{},
	}

	for _, d := range r.Directives {
		switch d.Kind {
		case KindType:
			af.Classes.Set(d.Class.String(), d.Param, d.Value)
		case KindAlias:
			af.Aliases[d.Value] = d.Class.String()
		}
	}

	return af
}
