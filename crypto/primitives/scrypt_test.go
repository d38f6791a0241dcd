package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams is a weak parameter set for tests only; production code always goes
// through DefaultScryptParams.
func fastParams() ScryptParams {
	return ScryptParams{LogN: 4, R: 1, P: 1}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef0123456789abcdef")

	a, err := DeriveKey([]byte("hunter2"), salt, fastParams())
	require.NoError(t, err)
	b, err := DeriveKey([]byte("hunter2"), salt, fastParams())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, PasswordHashLen)
}

func TestDeriveKeyDiffersBySalt(t *testing.T) {
	saltA, err := GenerateSalt()
	require.NoError(t, err)
	saltB, err := GenerateSalt()
	require.NoError(t, err)
	require.NotEqual(t, saltA, saltB)

	a, err := DeriveKey([]byte("hunter2"), saltA, fastParams())
	require.NoError(t, err)
	b, err := DeriveKey([]byte("hunter2"), saltB, fastParams())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDeriveKeyDiffersByPassword(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	a, err := DeriveKey([]byte("hunter2"), salt, fastParams())
	require.NoError(t, err)
	b, err := DeriveKey([]byte("hunter3"), salt, fastParams())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerateSaltLength(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltLen)
}

func TestDefaultScryptParams(t *testing.T) {
	params := DefaultScryptParams()
	assert.Equal(t, 16, params.LogN)
	assert.Equal(t, 8, params.R)
	assert.Equal(t, 1, params.P)
}
