package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorLines(t *testing.T) {
	err := New(KindMissingField, `Missing property "picture" in JSON data.`,
		"If you want to allow missing properties, change the OnMissingFields option.")

	assert.Equal(t, []string{
		`Missing property "picture" in JSON data.`,
		"If you want to allow missing properties, change the OnMissingFields option.",
	}, err.Lines())
	assert.Equal(t,
		`Missing property "picture" in JSON data. If you want to allow missing properties, change the OnMissingFields option.`,
		err.Error())
}

func TestWithPathDoesNotMutate(t *testing.T) {
	orig := New(KindValueTypeMismatch, "bad")
	bound := orig.WithPath("a.b")

	assert.Empty(t, orig.Path)
	assert.Equal(t, "a.b", bound.Path)
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("context: %w", Wrap(KindSyntax, cause, "Invalid JSON data: boom"))

	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindSyntax, de.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindSyntax, KindOf(err))
	assert.Equal(t, KindUnknown, KindOf(cause))
}

func TestKindClassification(t *testing.T) {
	tests := []struct {
		kind   Kind
		config bool
		fatal  bool
	}{
		{KindSyntax, true, true},
		{KindGrammar, true, true},
		{KindTypeDefinition, true, true},
		{KindUnsupportedType, true, true},
		{KindUnknownType, true, true},
		{KindValueTypeMismatch, false, false},
		{KindNoMatchingClass, false, false},
		{KindAmbiguousClass, false, false},
		{KindUnexpectedField, false, false},
		{KindEnumTagNotFound, false, false},
		{KindDepthExceeded, false, true},
		{KindUnknown, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.config, tt.kind.IsConfiguration())
			assert.Equal(t, tt.fatal, tt.kind.IsFatal())
		})
	}
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	assert.NoError(t, d.Err())

	d.Add(nil)
	assert.False(t, d.HasErrors())

	d.Add(New(KindUnknownType, "first"))
	assert.Equal(t, "first", d.Err().Error())

	d.Add(errors.New("second"))
	require.Len(t, d.Errors, 2)
	assert.Equal(t, KindUnknown, d.Errors[1].Kind)
	assert.Equal(t, "first\nsecond", d.Err().Error())
}
