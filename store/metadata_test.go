package store

import (
	"testing"

	"github.com/aira-project/aira-core/crypto/primitives"
	"github.com/aira-project/aira-core/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndLoadIdentityRowUnprotected(t *testing.T) {
	db := openTestDB(t)
	masterKey := make([]byte, primitives.MasterKeyLen)
	seed := make([]byte, 32)
	salt := make([]byte, primitives.SaltLen)

	require.NoError(t, CreateIdentityRow(db, masterKey, "alice", seed, salt, masterKey, false))

	name, err := GetIdentityName(db)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	protected, err := IsProtected(db)
	require.NoError(t, err)
	assert.False(t, protected)

	gotSeed, err := LoadKeypairSeed(db, masterKey)
	require.NoError(t, err)
	assert.Equal(t, seed, gotSeed)

	padding, err := LoadUsePadding(db, masterKey)
	require.NoError(t, err)
	assert.False(t, padding)
}

func TestCreateIdentityRowRejectsDuplicate(t *testing.T) {
	db := openTestDB(t)
	masterKey := make([]byte, primitives.MasterKeyLen)
	seed := make([]byte, 32)
	salt := make([]byte, primitives.SaltLen)

	require.NoError(t, CreateIdentityRow(db, masterKey, "alice", seed, salt, masterKey, false))
	err := CreateIdentityRow(db, masterKey, "bob", seed, salt, masterKey, false)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSetUsePaddingAndChangeName(t *testing.T) {
	db := openTestDB(t)
	masterKey := make([]byte, primitives.MasterKeyLen)
	seed := make([]byte, 32)
	salt := make([]byte, primitives.SaltLen)
	require.NoError(t, CreateIdentityRow(db, masterKey, "alice", seed, salt, masterKey, false))

	require.NoError(t, SetUsePadding(db, masterKey, true))
	padding, err := LoadUsePadding(db, masterKey)
	require.NoError(t, err)
	assert.True(t, padding)

	require.NoError(t, ChangeName(db, "alicia"))
	name, err := GetIdentityName(db)
	require.NoError(t, err)
	assert.Equal(t, "alicia", name)
}

func TestUpdateMasterKeyField(t *testing.T) {
	db := openTestDB(t)
	masterKey := make([]byte, primitives.MasterKeyLen)
	seed := make([]byte, 32)
	salt := make([]byte, primitives.SaltLen)
	require.NoError(t, CreateIdentityRow(db, masterKey, "alice", seed, salt, masterKey, false))

	newSalt := make([]byte, primitives.SaltLen)
	newSalt[0] = 0xFF
	newField := make([]byte, vault.WrappedLen)
	require.NoError(t, UpdateMasterKeyField(db, newSalt, newField))

	gotSalt, gotField, err := GetSaltAndMasterKeyField(db)
	require.NoError(t, err)
	assert.Equal(t, newSalt, gotSalt)
	assert.Equal(t, newField, gotField)
}

func TestIdentityAvatarRoundTrip(t *testing.T) {
	db := openTestDB(t)
	masterKey := make([]byte, primitives.MasterKeyLen)
	seed := make([]byte, 32)
	salt := make([]byte, primitives.SaltLen)
	require.NoError(t, CreateIdentityRow(db, masterKey, "alice", seed, salt, masterKey, false))

	_, ok, err := GetIdentityAvatar(db)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetIdentityAvatar(db, []byte("png-bytes")))
	data, ok, err := GetIdentityAvatar(db)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, RemoveIdentityAvatar(db))
	_, ok, err = GetIdentityAvatar(db)
	require.NoError(t, err)
	assert.False(t, ok)
}
