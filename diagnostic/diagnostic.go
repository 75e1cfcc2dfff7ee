// Package diagnostic defines the errors reported by the mapper.
//
// Every failure is a *Error carrying a Kind, a primary message and optional
// remediation hints. Tooling can print the primary line and the hints
// separately through Lines.
package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"json-mapper/internal/common"
)

// Kind classifies a mapping failure.
type Kind int

const (
	KindUnknown Kind = iota

	// Configuration-time defects.
	KindSyntax
	KindGrammar
	KindTypeDefinition
	KindUnsupportedType
	KindUnknownType

	// Defects in the input data.
	KindValueTypeMismatch
	KindNoMatchingClass
	KindAmbiguousClass
	KindUnexpectedField
	KindMissingField
	KindEnumTagNotFound
	KindConstructor
	KindValidation

	// Resource guard.
	KindDepthExceeded
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindGrammar:
		return "grammar"
	case KindTypeDefinition:
		return "type definition"
	case KindUnsupportedType:
		return "unsupported type"
	case KindUnknownType:
		return "unknown type"
	case KindValueTypeMismatch:
		return "value type mismatch"
	case KindNoMatchingClass:
		return "no matching class"
	case KindAmbiguousClass:
		return "ambiguous class"
	case KindUnexpectedField:
		return "unexpected field"
	case KindMissingField:
		return "missing field"
	case KindEnumTagNotFound:
		return "enum tag not found"
	case KindConstructor:
		return "constructor"
	case KindValidation:
		return "validation"
	case KindDepthExceeded:
		return "depth exceeded"
	default:
		return common.UnknownStr
	}
}

// IsConfiguration reports whether the kind denotes a defect of the declared
// types rather than of the input data. Such errors are never recovered.
func (k Kind) IsConfiguration() bool {
	switch k {
	case KindSyntax, KindGrammar, KindTypeDefinition, KindUnsupportedType, KindUnknownType:
		return true
	default:
		return false
	}
}

// IsFatal reports whether an error of this kind must abort the whole mapping
// call, even while several candidate classes are being tried. Unclassified
// errors are internal failures and abort too.
func (k Kind) IsFatal() bool {
	return k.IsConfiguration() || k == KindDepthExceeded || k == KindUnknown
}

// Error is a mapping failure.
type Error struct {
	// Kind of the failure.
	Kind Kind
	// Message is the primary human-readable line.
	Message string
	// Hints are supplementary lines, usually remediation advice.
	Hints []string
	// Path is the JSON property path the failure relates to (if any).
	Path string
	// Err is the underlying cause (if any).
	Err error
}

// New creates an error from a primary message and optional hints.
func New(kind Kind, message string, hints ...string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Hints:   hints,
	}
}

// Errorf creates an error with a formatted primary message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an error that keeps err as its cause.
func Wrap(kind Kind, err error, message string, hints ...string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Hints:   hints,
		Err:     err,
	}
}

// WithPath returns a copy of the error bound to the given property path.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path

	return &cp
}

// WithHints returns a copy of the error with extra hints appended.
func (e *Error) WithHints(hints ...string) *Error {
	cp := *e
	cp.Hints = append(append([]string{}, e.Hints...), hints...)

	return &cp
}

// Lines returns the primary message followed by the hints.
func (e *Error) Lines() []string {
	return append([]string{e.Message}, e.Hints...)
}

// Error joins all lines with a space.
func (e *Error) Error() string {
	return strings.Join(e.Lines(), " ")
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// As extracts a *Error from err.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}

	return nil, false
}

// KindOf returns the kind of err, or KindUnknown when err is not a *Error.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind
	}

	return KindUnknown
}

// Diagnostics collects several errors, for checks that report every problem
// instead of stopping at the first one.
type Diagnostics struct {
	Errors []*Error
}

// Add appends an error. Errors that are not *Error are wrapped as KindUnknown.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}

	de, ok := As(err)
	if !ok {
		de = Wrap(KindUnknown, err, err.Error())
	}

	d.Errors = append(d.Errors, de)
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
}

// HasErrors returns true if there are any errors.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Err returns a combined error from all collected errors, or nil if valid.
func (d *Diagnostics) Err() error {
	if !d.HasErrors() {
		return nil
	}

	if len(d.Errors) == 1 {
		return d.Errors[0]
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, e)
	}

	return errors.Join(errs...)
}
