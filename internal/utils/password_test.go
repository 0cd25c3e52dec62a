package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("hunter2-plus")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2-plus", hash)

	require.True(t, hasher.Verify("hunter2-plus", hash))
	require.False(t, hasher.Verify("wrong-password", hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("hunter2-plus")
	require.NoError(t, err)
	second, err := hasher.Hash("hunter2-plus")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify("hunter2-plus", first))
	require.True(t, hasher.Verify("hunter2-plus", second))
}

func TestBcryptHasher_MalformedHashIsMismatch(t *testing.T) {
	hasher := NewBcryptHasher(4)

	require.False(t, hasher.Verify("hunter2-plus", "not-a-bcrypt-hash"))
	require.False(t, hasher.Verify("hunter2-plus", ""))
}

func TestNewBcryptHasher_CostOutOfRangeFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("hunter2-plus")
	require.NoError(t, err)
	require.True(t, hasher.Verify("hunter2-plus", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, ValidatePasswordStrength("six--6"))
	require.NoError(t, ValidatePasswordStrength(strings.Repeat("a", 40)))

	require.ErrorIs(t, ValidatePasswordStrength("five5"), ErrPasswordTooShort)
	require.ErrorIs(t, ValidatePasswordStrength(""), ErrPasswordTooShort)
	require.ErrorIs(t, ValidatePasswordStrength(strings.Repeat("a", 41)), ErrPasswordTooLong)
}
