package primitives

import (
	"testing"

	airacrypto "github.com/aira-project/aira-core/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, err := GenerateMasterKey()
	require.NoError(t, err)

	plaintexts := [][]byte{
		nil,
		[]byte("x"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		make([]byte, 4096),
	}

	for _, pt := range plaintexts {
		sealed, err := Encrypt(key, pt)
		require.NoError(t, err)
		assert.Len(t, sealed, IVLen+len(pt)+TagLen)

		opened, err := Decrypt(key, sealed)
		require.NoError(t, err)
		assert.Equal(t, pt, opened)
	}
}

func TestEncryptUsesFreshIVEachTime(t *testing.T) {
	key, err := GenerateMasterKey()
	require.NoError(t, err)

	a, err := Encrypt(key, []byte("same plaintext"))
	require.NoError(t, err)
	b, err := Encrypt(key, []byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two seals of the same plaintext must differ by IV")
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	key, err := GenerateMasterKey()
	require.NoError(t, err)

	sealed, err := Encrypt(key, []byte("top secret"))
	require.NoError(t, err)

	for i := range sealed {
		tampered := append([]byte{}, sealed...)
		tampered[i] ^= 0xFF
		_, err := Decrypt(key, tampered)
		assert.ErrorIs(t, err, airacrypto.ErrDecryptionFailed, "byte %d", i)
	}
}

func TestDecryptRejectsShortInput(t *testing.T) {
	key, err := GenerateMasterKey()
	require.NoError(t, err)

	_, err = Decrypt(key, make([]byte, IVLen))
	assert.ErrorIs(t, err, airacrypto.ErrInvalidLength)
}

func TestEncryptRejectsBadKeyLength(t *testing.T) {
	_, err := Encrypt(make([]byte, 16), []byte("x"))
	assert.ErrorIs(t, err, airacrypto.ErrInvalidLength)
}
