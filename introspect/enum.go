package introspect

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"json-mapper/internal/typedesc"
)

// Enum is a registered enumeration: a named Go type with a closed set of
// members. Members of int or string kinds are backed by their own value,
// which is the tag used in JSON.
type Enum struct {
	Name    string
	Type    reflect.Type
	Backing typedesc.Backing

	// tag (int64 or string) to member
	members map[any]reflect.Value
	tags    []string
}

// RegisterEnum registers the members of an enum type. The backing kind
// follows the underlying type of T; enums of any other kind are registered
// as non-backed and cannot be mapped from JSON. Unsigned members above
// math.MaxInt64 are rejected with ErrOverflow.
func RegisterEnum[T comparable](r *Registry, members ...T) (*Enum, error) {
	t := reflect.TypeFor[T]()
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnnamedType, t)
	}

	e := &Enum{
		Name:    TypeName(t),
		Type:    t,
		Backing: backingOf(t),
		members: make(map[any]reflect.Value, len(members)),
	}

	if e.Backing != typedesc.BackingNone {
		for _, m := range members {
			v := reflect.ValueOf(m)

			tag, err := enumTag(v)
			if err != nil {
				return nil, fmt.Errorf("enum %s: %w", e.Name, err)
			}

			e.members[tag] = v
			e.tags = append(e.tags, fmt.Sprint(tag))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.enumByType[t]; ok {
		return nil, fmt.Errorf("%w: enum %s", ErrDuplicate, e.Name)
	}

	if _, ok := r.classes[e.Name]; ok {
		return nil, fmt.Errorf("%w: %s is a class", ErrDuplicate, e.Name)
	}

	r.enums[e.Name] = e
	r.enumByType[t] = e

	s := ShortName(e.Name)
	r.short[s] = append(r.short[s], e.Name)

	return e, nil
}

// From returns the member with the given tag. tag is an int64 for
// int-backed enums and a string for string-backed enums.
func (e *Enum) From(tag any) (any, bool) {
	v, ok := e.members[tag]
	if !ok {
		return nil, false
	}

	return v.Interface(), true
}

// Tags returns the member tags in registration order.
func (e *Enum) Tags() []string {
	return slices.Clone(e.tags)
}

func backingOf(t reflect.Type) typedesc.Backing {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return typedesc.BackingInt
	case reflect.String:
		return typedesc.BackingString
	default:
		return typedesc.BackingNone
	}
}

func enumTag(v reflect.Value) (any, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return nil, fmt.Errorf("%w: member %d is not an int64 tag", ErrOverflow, v.Uint())
		}

		return int64(v.Uint()), nil
	default:
		return v.Int(), nil
	}
}

// FormatTag renders a tag the way it appears in JSON.
func FormatTag(tag any) string {
	switch tag := tag.(type) {
	case string:
		return strconv.Quote(tag)
	default:
		return fmt.Sprint(tag)
	}
}
