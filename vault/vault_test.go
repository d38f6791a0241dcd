package vault

import (
	"crypto/rand"
	"testing"

	airacrypto "github.com/aira-project/aira-core/crypto"
	"github.com/aira-project/aira-core/crypto/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMasterKey(t *testing.T) []byte {
	t.Helper()
	mk := make([]byte, primitives.MasterKeyLen)
	_, err := rand.Read(mk)
	require.NoError(t, err)
	return mk
}

func TestWrapUnprotected(t *testing.T) {
	mk := randomMasterKey(t)

	w, err := Wrap(mk, nil)
	require.NoError(t, err)
	assert.Len(t, w.Salt, primitives.SaltLen)
	assert.True(t, primitives.AllZero(w.Salt))
	assert.Equal(t, mk, w.MasterKey)
	assert.False(t, IsProtected(w.MasterKey))

	recovered, err := Unwrap(w.Salt, w.MasterKey, nil)
	require.NoError(t, err)
	assert.Equal(t, mk, recovered)
}

func TestWrapProtectedRoundTrip(t *testing.T) {
	mk := randomMasterKey(t)
	password := []byte("hunter2")

	w, err := Wrap(mk, password)
	require.NoError(t, err)
	assert.Len(t, w.Salt, primitives.SaltLen)
	assert.Len(t, w.MasterKey, WrappedLen)
	assert.True(t, IsProtected(w.MasterKey))

	recovered, err := Unwrap(w.Salt, w.MasterKey, password)
	require.NoError(t, err)
	assert.Equal(t, mk, recovered)
}

func TestUnwrapWrongPasswordFails(t *testing.T) {
	mk := randomMasterKey(t)
	w, err := Wrap(mk, []byte("hunter2"))
	require.NoError(t, err)

	_, err = Unwrap(w.Salt, w.MasterKey, []byte("wrong"))
	assert.ErrorIs(t, err, airacrypto.ErrDecryptionFailed)
}

func TestUnwrapCorruptedFieldsReturnInvalidLength(t *testing.T) {
	mk := randomMasterKey(t)
	w, err := Wrap(mk, []byte("hunter2"))
	require.NoError(t, err)

	_, err = Unwrap(w.Salt[:16], w.MasterKey, []byte("hunter2"))
	assert.ErrorIs(t, err, airacrypto.ErrInvalidLength)

	_, err = Unwrap(w.Salt, w.MasterKey[:WrappedLen-1], []byte("hunter2"))
	assert.ErrorIs(t, err, airacrypto.ErrInvalidLength)
}

func TestWrapSaltUniqueness(t *testing.T) {
	mk := randomMasterKey(t)
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		w, err := Wrap(mk, []byte("hunter2"))
		require.NoError(t, err)
		key := string(w.Salt)
		assert.False(t, seen[key], "salt collision at iteration %d", i)
		seen[key] = true
	}
}

func TestChangePasswordPreservesMasterKey(t *testing.T) {
	mk := randomMasterKey(t)

	w, err := Wrap(mk, []byte("hunter2"))
	require.NoError(t, err)

	w2, err := ChangePassword(w.Salt, w.MasterKey, []byte("hunter2"), []byte("correct horse"))
	require.NoError(t, err)

	recovered, err := Unwrap(w2.Salt, w2.MasterKey, []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, mk, recovered, "changing password must preserve the underlying master key")
}

func TestChangePasswordToEmptyStoresPlain(t *testing.T) {
	mk := randomMasterKey(t)

	w, err := Wrap(mk, []byte("hunter2"))
	require.NoError(t, err)

	w2, err := ChangePassword(w.Salt, w.MasterKey, []byte("hunter2"), nil)
	require.NoError(t, err)
	assert.False(t, IsProtected(w2.MasterKey))

	recovered, err := Unwrap(w2.Salt, w2.MasterKey, nil)
	require.NoError(t, err)
	assert.Equal(t, mk, recovered)
}

func TestChangePasswordFromEmpty(t *testing.T) {
	mk := randomMasterKey(t)

	w, err := Wrap(mk, nil)
	require.NoError(t, err)

	w2, err := ChangePassword(w.Salt, w.MasterKey, nil, []byte("new password"))
	require.NoError(t, err)
	assert.True(t, IsProtected(w2.MasterKey))

	recovered, err := Unwrap(w2.Salt, w2.MasterKey, []byte("new password"))
	require.NoError(t, err)
	assert.Equal(t, mk, recovered)
}

func TestChangePasswordWrongOldFails(t *testing.T) {
	mk := randomMasterKey(t)
	w, err := Wrap(mk, []byte("hunter2"))
	require.NoError(t, err)

	_, err = ChangePassword(w.Salt, w.MasterKey, []byte("wrong"), []byte("new"))
	assert.ErrorIs(t, err, airacrypto.ErrDecryptionFailed)
}

func TestWrapRejectsBadMasterKeyLength(t *testing.T) {
	_, err := Wrap(make([]byte, 16), []byte("hunter2"))
	assert.ErrorIs(t, err, airacrypto.ErrInvalidLength)
}
