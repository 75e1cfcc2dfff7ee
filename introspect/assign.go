package introspect

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotAssignable means no conversion exists between the mapped value
	// and the parameter type: the documented type disagrees with the Go type.
	ErrNotAssignable = errors.New("value is not assignable")
	// ErrOverflow means a number does not fit in the parameter type.
	ErrOverflow = errors.New("value overflows")
)

// Assign converts a mapped value to t. Mapped values are nil, bool, int64,
// float64, string, []any, raw JSON values, enum members and constructed
// objects. Beyond plain assignability it widens integers to floats, narrows
// numbers with a range check, converts to named scalar types, allocates
// pointers, dereferences object pointers and converts []any element-wise.
func Assign(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: cannot use null as %s", ErrNotAssignable, t)
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	if t.Kind() == reflect.Pointer {
		elem, err := Assign(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}

		p := reflect.New(t.Elem())
		p.Elem().Set(elem)

		return p, nil
	}

	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return Assign(rv.Elem().Interface(), t)
	}

	switch x := v.(type) {
	case int64:
		return assignInt(x, t)
	case float64:
		return assignFloat(x, t)
	case string:
		if t.Kind() == reflect.String {
			return rv.Convert(t), nil
		}
	case bool:
		if t.Kind() == reflect.Bool {
			return rv.Convert(t), nil
		}
	case []any:
		if t.Kind() == reflect.Slice {
			return assignSlice(x, t)
		}
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %s as %s", ErrNotAssignable, rv.Type(), t)
}

func assignInt(n int64, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%w: %d does not fit in %s", ErrOverflow, n, t)
		}

		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%w: %d does not fit in %s", ErrOverflow, n, t)
		}

		out.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		out.SetFloat(float64(n))

	default:
		return reflect.Value{}, fmt.Errorf("%w: cannot use int as %s", ErrNotAssignable, t)
	}

	return out, nil
}

func assignFloat(f float64, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		out := reflect.New(t).Elem()
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%w: %g does not fit in %s", ErrOverflow, f, t)
		}

		out.SetFloat(f)

		return out, nil

	default:
		return reflect.Value{}, fmt.Errorf("%w: cannot use float as %s", ErrNotAssignable, t)
	}
}

func assignSlice(items []any, t reflect.Type) (reflect.Value, error) {
	out := reflect.MakeSlice(t, len(items), len(items))

	for i, item := range items {
		v, err := Assign(item, t.Elem())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(v)
	}

	return out, nil
}
