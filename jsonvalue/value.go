// Package jsonvalue models a decoded JSON document as a closed set of node
// types, keeping the member order of objects and the distinction between
// integral and fractional numbers.
package jsonvalue

import (
	"errors"
	"strconv"

	"json-mapper/internal/common"
)

// Kind identifies the type of a JSON node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return common.UnknownStr
	}
}

// Value is a JSON node: Null, Bool, Int, Float, String, Array or Object.
type Value interface {
	Kind() Kind
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON true or false literal.
type Bool bool

// Int is a JSON number without fraction or exponent that fits in an int64.
type Int int64

// Float is any other JSON number.
type Float float64

// String is a JSON string.
type String string

// Array is a JSON array.
type Array []Value

// Object is a JSON object. Members keep their document order.
type Object struct {
	Members []Member
}

// Member is a single name/value pair of an Object.
type Member struct {
	Name  string
	Value Value
}

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

// Get returns the value of the last member with the given name.
func (o Object) Get(name string) (Value, bool) {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Name == name {
			return o.Members[i].Value, true
		}
	}

	return nil, false
}

// Has reports whether the object has a member with the given name.
func (o Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Names returns the member names in document order.
func (o Object) Names() []string {
	names := make([]string, len(o.Members))
	for i, m := range o.Members {
		names[i] = m.Name
	}

	return names
}

// Len returns the number of members.
func (o Object) Len() int {
	return len(o.Members)
}

// parseNumber converts a JSON number literal to Int when it is integral and
// fits in an int64, and to Float otherwise.
func parseNumber(lit string) (Value, error) {
	integral := true

	for i := 0; i < len(lit); i++ {
		switch lit[i] {
		case '.', 'e', 'E':
			integral = false
		}
	}

	if integral {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(n), nil
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, err
	}

	return Float(f), nil
}
