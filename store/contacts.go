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

	"github.com/google/uuid"

	"github.com/aira-project/aira-core/crypto/primitives"
	"github.com/aira-project/aira-core/internal/logger"
)

// Contact is the decrypted view of a contacts row.
type Contact struct {
	UUID      uuid.UUID
	Name      string
	PublicKey []byte
	Avatar    *uuid.UUID
	Verified  bool
	Seen      bool
}

func ensureContactsTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS contacts (
		uuid BLOB PRIMARY KEY,
		name BLOB,
		avatar BLOB,
		key BLOB,
		verified BLOB,
		seen BLOB
	)`)
	if err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

// AddContact generates a random UUID and inserts a new contact row: name,
// public key, verified=false and seen=true encrypted under the store's
// master key; uuid and the optional avatar pointer stored in plaintext.
func (s *Store) AddContact(name string, avatar *uuid.UUID, pubkey []byte) (*Contact, error) {
	if err := ensureContactsTable(s.db); err != nil {
		return nil, err
	}

	id := uuid.New()

	encName, err := primitives.Encrypt(s.masterKey, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("encrypt name: %w", err)
	}
	encKey, err := primitives.Encrypt(s.masterKey, pubkey)
	if err != nil {
		return nil, fmt.Errorf("encrypt public key: %w", err)
	}
	encVerified, err := encryptBool(s.masterKey, false)
	if err != nil {
		return nil, fmt.Errorf("encrypt verified: %w", err)
	}
	encSeen, err := encryptBool(s.masterKey, true)
	if err != nil {
		return nil, fmt.Errorf("encrypt seen: %w", err)
	}

	var avatarBytes []byte
	if avatar != nil {
		avatarBytes = avatar[:]
	}

	_, err = s.db.Exec(
		`INSERT INTO contacts (uuid, name, avatar, key, verified, seen) VALUES (?, ?, ?, ?, ?, ?)`,
		id[:], encName, avatarBytes, encKey, encVerified, encSeen,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	return &Contact{UUID: id, Name: name, PublicKey: pubkey, Avatar: avatar, Verified: false, Seen: true}, nil
}

// RemoveContact drops the contact's per-conversation message table,
// deletes its file rows, and deletes the contacts row itself.
func (s *Store) RemoveContact(contactUUID uuid.UUID) error {
	if err := ensureFilesTable(s.db); err != nil {
		return err
	}

	dropStmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, messageTableName(contactUUID))
	if _, err := s.db.Exec(dropStmt); err != nil {
		return fmt.Errorf("drop message table: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM files WHERE contact_uuid = ?`, contactUUID[:]); err != nil {
		return fmt.Errorf("delete contact files: %w", err)
	}

	if _, err := s.db.Exec(`DELETE FROM contacts WHERE uuid = ?`, contactUUID[:]); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// SetVerified overwrites the verified ciphertext with encrypt(true).
func (s *Store) SetVerified(contactUUID uuid.UUID) error {
	sealed, err := encryptBool(s.masterKey, true)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE contacts SET verified = ? WHERE uuid = ?`, sealed, contactUUID[:])
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	return nil
}

// ChangeContactName overwrites the name ciphertext.
func (s *Store) ChangeContactName(contactUUID uuid.UUID, name string) error {
	sealed, err := primitives.Encrypt(s.masterKey, []byte(name))
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE contacts SET name = ? WHERE uuid = ?`, sealed, contactUUID[:])
	if err != nil {
		return fmt.Errorf("change contact name: %w", err)
	}
	return nil
}

// SetContactAvatar updates the contact's plaintext avatar pointer. If
// avatar is non-nil, the pointer is simply overwritten. If it is nil, the
// previously referenced avatar row (if any) is deleted and the pointer is
// cleared.
func (s *Store) SetContactAvatar(contactUUID uuid.UUID, avatar *uuid.UUID) error {
	if avatar != nil {
		_, err := s.db.Exec(`UPDATE contacts SET avatar = ? WHERE uuid = ?`, avatar[:], contactUUID[:])
		if err != nil {
			return fmt.Errorf("set contact avatar: %w", err)
		}
		return nil
	}

	var current []byte
	err := s.db.QueryRow(`SELECT avatar FROM contacts WHERE uuid = ?`, contactUUID[:]).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read contact avatar: %w", err)
	}
	if len(current) == 16 {
		if _, err := s.db.Exec(`DELETE FROM avatars WHERE uuid = ?`, current); err != nil {
			return fmt.Errorf("delete referenced avatar: %w", err)
		}
	}

	_, err = s.db.Exec(`UPDATE contacts SET avatar = NULL WHERE uuid = ?`, contactUUID[:])
	if err != nil {
		return fmt.Errorf("clear contact avatar: %w", err)
	}
	return nil
}

// SetContactSeen overwrites the seen ciphertext.
func (s *Store) SetContactSeen(contactUUID uuid.UUID, seen bool) error {
	sealed, err := encryptBool(s.masterKey, seen)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`UPDATE contacts SET seen = ? WHERE uuid = ?`, sealed, contactUUID[:])
	if err != nil {
		return fmt.Errorf("set contact seen: %w", err)
	}
	return nil
}

// LoadContacts returns every contact row with its encrypted fields
// decrypted. Rows that fail to decrypt are logged and skipped rather than
// aborting the whole read; skipped reports how many were dropped.
func (s *Store) LoadContacts() (contacts []Contact, skipped int, err error) {
	if err := ensureContactsTable(s.db); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(`SELECT uuid, name, avatar, key, verified, seen FROM contacts`)
	if err != nil {
		return nil, 0, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var uuidBytes, encName, avatarBytes, encKey, encVerified, encSeen []byte
		if err := rows.Scan(&uuidBytes, &encName, &avatarBytes, &encKey, &encVerified, &encSeen); err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}

		c, decErr := s.decryptContactRow(uuidBytes, encName, avatarBytes, encKey, encVerified, encSeen)
		if decErr != nil {
			skipped++
			if s.log != nil {
				s.log.Warn("skipping corrupted contact row", logger.String("uuid", fmt.Sprintf("%x", uuidBytes)), logger.Error(decErr))
			}
			continue
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contacts: %w", err)
	}

	return contacts, skipped, nil
}

func (s *Store) decryptContactRow(uuidBytes, encName, avatarBytes, encKey, encVerified, encSeen []byte) (*Contact, error) {
	id, err := uuid.FromBytes(uuidBytes)
	if err != nil {
		return nil, fmt.Errorf("parse uuid: %w", err)
	}

	name, err := primitives.Decrypt(s.masterKey, encName)
	if err != nil {
		return nil, fmt.Errorf("decrypt name: %w", err)
	}
	pubkey, err := primitives.Decrypt(s.masterKey, encKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt public key: %w", err)
	}
	verified, err := decryptBool(s.masterKey, encVerified)
	if err != nil {
		return nil, fmt.Errorf("decrypt verified: %w", err)
	}
	seen, err := decryptBool(s.masterKey, encSeen)
	if err != nil {
		return nil, fmt.Errorf("decrypt seen: %w", err)
	}

	var avatar *uuid.UUID
	if len(avatarBytes) == 16 {
		a, err := uuid.FromBytes(avatarBytes)
		if err != nil {
			return nil, fmt.Errorf("parse avatar uuid: %w", err)
		}
		avatar = &a
	}

	return &Contact{
		UUID:      id,
		Name:      string(name),
		PublicKey: pubkey,
		Avatar:    avatar,
		Verified:  verified,
		Seen:      seen,
	}, nil
}
