package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Email string `validate:"required,email"`
	Age   int    `validate:"gte=18"`
	Kind  string `validate:"oneof=a b"`
	Code  string `validate:"len=3"`
}

func TestStruct(t *testing.T) {
	failures, err := Struct(account{Email: "x@example.com", Age: 20, Kind: "a", Code: "abc"})
	require.NoError(t, err)
	assert.Empty(t, failures)

	failures, err = Struct(account{Age: 3, Kind: "c", Code: "ab"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"account.Email: required",
		"account.Age: must be at least 18",
		"account.Kind: must be one of: a b",
		"account.Code: must have length 3",
	}, failures)

	failures, err = Struct(42)
	require.Error(t, err)
	assert.Nil(t, failures)
}
