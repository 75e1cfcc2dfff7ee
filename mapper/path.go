package mapper

import (
	"strconv"
	"strings"
)

// Path locates a JSON value below the mapped document.
// Examples:
//   - "" for the document itself
//   - "customer" for a property of the document
//   - "customer.firstname" for a nested property
//   - "contributors[0].picture" for a property of an array element
type Path struct {
	parts []string
}

// Field appends a property name to the path.
func (p Path) Field(name string) Path {
	parts := make([]string, len(p.parts), len(p.parts)+1)
	copy(parts, p.parts)

	return Path{parts: append(parts, name)}
}

// Index appends an array index to the last element of the path.
func (p Path) Index(i int) Path {
	parts := make([]string, len(p.parts))
	copy(parts, p.parts)

	suffix := "[" + strconv.Itoa(i) + "]"
	if len(parts) == 0 {
		return Path{parts: []string{suffix}}
	}

	parts[len(parts)-1] += suffix

	return Path{parts: parts}
}

// IsRoot reports whether the path designates the document itself.
func (p Path) IsRoot() bool {
	return len(p.parts) == 0
}

// String returns the full path string.
func (p Path) String() string {
	return strings.Join(p.parts, ".")
}
