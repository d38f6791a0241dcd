package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aira-project/aira-core/crypto/primitives"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db := openTestDB(t)
	masterKey := make([]byte, primitives.MasterKeyLen)
	for i := range masterKey {
		masterKey[i] = byte(i)
	}
	return New(db, masterKey, nil)
}

func TestAddContactAndLoad(t *testing.T) {
	s := testStore(t)

	pubkey := make([]byte, 32)
	pubkey[0] = 0x02
	contact, err := s.AddContact("bob", nil, pubkey)
	require.NoError(t, err)

	contacts, skipped, err := s.LoadContacts()
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, contacts, 1)

	got := contacts[0]
	assert.Equal(t, contact.UUID, got.UUID)
	assert.Equal(t, "bob", got.Name)
	assert.Equal(t, pubkey, got.PublicKey)
	assert.False(t, got.Verified)
	assert.True(t, got.Seen)
}

func TestSetVerified(t *testing.T) {
	s := testStore(t)
	contact, err := s.AddContact("bob", nil, make([]byte, 32))
	require.NoError(t, err)

	require.NoError(t, s.SetVerified(contact.UUID))

	contacts, _, err := s.LoadContacts()
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.True(t, contacts[0].Verified)
}

func TestChangeContactNameAndSeen(t *testing.T) {
	s := testStore(t)
	contact, err := s.AddContact("bob", nil, make([]byte, 32))
	require.NoError(t, err)

	require.NoError(t, s.ChangeContactName(contact.UUID, "bobby"))
	require.NoError(t, s.SetContactSeen(contact.UUID, false))

	contacts, _, err := s.LoadContacts()
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "bobby", contacts[0].Name)
	assert.False(t, contacts[0].Seen)
}

func TestSetContactAvatarClearsReferencedRow(t *testing.T) {
	s := testStore(t)
	contact, err := s.AddContact("bob", nil, make([]byte, 32))
	require.NoError(t, err)

	avatarID, err := s.StoreAvatar([]byte("avatar-bytes"))
	require.NoError(t, err)

	require.NoError(t, s.SetContactAvatar(contact.UUID, &avatarID))
	contacts, _, err := s.LoadContacts()
	require.NoError(t, err)
	require.NotNil(t, contacts[0].Avatar)
	assert.Equal(t, avatarID, *contacts[0].Avatar)

	require.NoError(t, s.SetContactAvatar(contact.UUID, nil))
	contacts, _, err = s.LoadContacts()
	require.NoError(t, err)
	assert.Nil(t, contacts[0].Avatar)

	_, found, err := s.GetAvatar(avatarID)
	require.NoError(t, err)
	assert.False(t, found, "clearing the contact's avatar pointer must delete the referenced avatar row")
}

func TestRemoveContactDropsMessagesAndFiles(t *testing.T) {
	s := testStore(t)
	contact, err := s.AddContact("bob", nil, make([]byte, 32))
	require.NoError(t, err)

	require.NoError(t, s.StoreMessage(contact.UUID, Message{Outgoing: true, Timestamp: 1, Data: []byte("hi")}))
	_, err = s.StoreFile(&contact.UUID, []byte("file-data"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveContact(contact.UUID))

	contacts, _, err := s.LoadContacts()
	require.NoError(t, err)
	assert.Empty(t, contacts)

	var fileCount int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM files WHERE contact_uuid = ?`, contact.UUID[:]).Scan(&fileCount))
	assert.Equal(t, 0, fileCount)

	var tableName string
	err = s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, contact.UUID.String()).Scan(&tableName)
	assert.Error(t, err, "the per-contact message table must be dropped")
}

func TestLoadContactsSkipsCorruptedRow(t *testing.T) {
	s := testStore(t)
	_, err := s.AddContact("bob", nil, make([]byte, 32))
	require.NoError(t, err)

	corruptID := uuid.New()
	_, err = s.db.Exec(`INSERT INTO contacts (uuid, name, avatar, key, verified, seen) VALUES (?, ?, ?, ?, ?, ?)`,
		corruptID[:], []byte("not-a-valid-ciphertext"), nil, []byte("also-bad"), []byte("bad"), []byte("bad"))
	require.NoError(t, err)

	contacts, skipped, err := s.LoadContacts()
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Len(t, contacts, 1)
}
