// Copyright (C) 2025 AIRA core contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package store

import (
	"database/sql"
	"fmt"

	"github.com/aira-project/aira-core/crypto/primitives"
)

// Metadata keys, all stored in the main table.
const (
	keyName       = "name"
	keyKeypair    = "keypair"
	keySalt       = "salt"
	keyMasterKey  = "master_key"
	keyUsePadding = "use_padding"
	keyAvatar     = "avatar"
)

// CreateIdentityRow inserts the initial metadata row for a brand new
// identity: plaintext name, salt, and master-key field, plus the signing
// keypair seed and the default use_padding flag encrypted under masterKey.
// It fails with ErrAlreadyExists if the folder's database already holds an
// identity, via the main table's key uniqueness.
func CreateIdentityRow(db *sql.DB, masterKey []byte, name string, keypairSeed, salt, masterKeyField []byte, usePadding bool) error {
	kv, err := mainKV(db)
	if err != nil {
		return err
	}

	if err := kv.Set(keyName, []byte(name)); err != nil {
		return ErrAlreadyExists
	}
	if err := kv.Set(keySalt, salt); err != nil {
		return fmt.Errorf("store salt: %w", err)
	}
	if err := kv.Set(keyMasterKey, masterKeyField); err != nil {
		return fmt.Errorf("store master key: %w", err)
	}

	encryptedKeypair, err := primitives.Encrypt(masterKey, keypairSeed)
	if err != nil {
		return fmt.Errorf("encrypt keypair: %w", err)
	}
	if err := kv.Set(keyKeypair, encryptedKeypair); err != nil {
		return fmt.Errorf("store keypair: %w", err)
	}

	encryptedPadding, err := encryptBool(masterKey, usePadding)
	if err != nil {
		return fmt.Errorf("encrypt use_padding: %w", err)
	}
	if err := kv.Set(keyUsePadding, encryptedPadding); err != nil {
		return fmt.Errorf("store use_padding: %w", err)
	}

	return nil
}

// GetIdentityName reads the name key without unwrapping the master key,
// used to answer get_identity_name(folder) before any password is known.
func GetIdentityName(db *sql.DB) (string, error) {
	kv, err := mainKV(db)
	if err != nil {
		return "", err
	}
	value, err := kv.Get(keyName)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// GetSaltAndMasterKeyField reads the raw (salt, master_key) pair stored in
// the metadata row, for vault.Unwrap to consume.
func GetSaltAndMasterKeyField(db *sql.DB) (salt, masterKeyField []byte, err error) {
	kv, err := mainKV(db)
	if err != nil {
		return nil, nil, err
	}
	salt, err = kv.Get(keySalt)
	if err != nil {
		return nil, nil, err
	}
	masterKeyField, err = kv.Get(keyMasterKey)
	if err != nil {
		return nil, nil, err
	}
	return salt, masterKeyField, nil
}

// IsProtected reports whether the stored master-key field is anything
// other than exactly MasterKeyLen bytes.
func IsProtected(db *sql.DB) (bool, error) {
	_, masterKeyField, err := GetSaltAndMasterKeyField(db)
	if err != nil {
		return false, err
	}
	return len(masterKeyField) != primitives.MasterKeyLen, nil
}

// UpdateMasterKeyField overwrites the (salt, master_key) pair in place,
// the only write ChangePassword ever performs: every contact and message
// row sealed under the unchanged master key stays valid.
func UpdateMasterKeyField(db *sql.DB, salt, masterKeyField []byte) error {
	kv, err := mainKV(db)
	if err != nil {
		return err
	}
	if err := kv.Update(keySalt, salt); err != nil {
		return fmt.Errorf("update salt: %w", err)
	}
	if err := kv.Update(keyMasterKey, masterKeyField); err != nil {
		return fmt.Errorf("update master key: %w", err)
	}
	return nil
}

// LoadKeypairSeed decrypts and returns the identity's Ed25519 signing seed.
func LoadKeypairSeed(db *sql.DB, masterKey []byte) ([]byte, error) {
	kv, err := mainKV(db)
	if err != nil {
		return nil, err
	}
	sealed, err := kv.Get(keyKeypair)
	if err != nil {
		return nil, err
	}
	return primitives.Decrypt(masterKey, sealed)
}

// LoadUsePadding decrypts and returns the identity's use_padding flag.
func LoadUsePadding(db *sql.DB, masterKey []byte) (bool, error) {
	kv, err := mainKV(db)
	if err != nil {
		return false, err
	}
	sealed, err := kv.Get(keyUsePadding)
	if err != nil {
		return false, err
	}
	return decryptBool(masterKey, sealed)
}

// SetUsePadding overwrites the encrypted use_padding flag.
func SetUsePadding(db *sql.DB, masterKey []byte, value bool) error {
	kv, err := mainKV(db)
	if err != nil {
		return err
	}
	sealed, err := encryptBool(masterKey, value)
	if err != nil {
		return err
	}
	return kv.Update(keyUsePadding, sealed)
}

// ChangeName overwrites the plaintext name field.
func ChangeName(db *sql.DB, newName string) error {
	kv, err := mainKV(db)
	if err != nil {
		return err
	}
	return kv.Update(keyName, []byte(newName))
}

// SetIdentityAvatar stores the identity's own avatar as a raw, unencrypted
// blob in the metadata row, mirroring the original implementation.
func SetIdentityAvatar(db *sql.DB, data []byte) error {
	kv, err := mainKV(db)
	if err != nil {
		return err
	}
	return kv.Upsert(keyAvatar, data)
}

// GetIdentityAvatar returns the identity's own avatar, if one was ever set.
func GetIdentityAvatar(db *sql.DB) (data []byte, ok bool, err error) {
	kv, err := mainKV(db)
	if err != nil {
		return nil, false, err
	}
	data, err = kv.Get(keyAvatar)
	if err == ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// RemoveIdentityAvatar deletes the identity's own avatar row.
func RemoveIdentityAvatar(db *sql.DB) error {
	kv, err := mainKV(db)
	if err != nil {
		return err
	}
	return kv.Del(keyAvatar)
}
