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
)

func ensureFilesTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS files (contact_uuid BLOB, uuid BLOB, data BLOB)`)
	if err != nil {
		return fmt.Errorf("create files table: %w", err)
	}
	return nil
}

func contactsTableExists(db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='contacts'`).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check contacts table: %w", err)
	}
	return true, nil
}

// StoreFile encrypts a fresh UUID and data blob and inserts a file row.
// contactUUID is stored in plaintext (or NULL for a transient file not
// owned by any conversation).
func (s *Store) StoreFile(contactUUID *uuid.UUID, data []byte) (uuid.UUID, error) {
	if err := ensureFilesTable(s.db); err != nil {
		return uuid.UUID{}, err
	}

	id := uuid.New()
	encID, err := encryptUUID(s.masterKey, id)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("encrypt file uuid: %w", err)
	}
	encData, err := primitives.Encrypt(s.masterKey, data)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("encrypt file data: %w", err)
	}

	var contactBytes []byte
	if contactUUID != nil {
		contactBytes = contactUUID[:]
	}

	_, err = s.db.Exec(`INSERT INTO files (contact_uuid, uuid, data) VALUES (?, ?, ?)`, contactBytes, encID, encData)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("insert file: %w", err)
	}
	return id, nil
}

// LoadFile scans every file row, decrypting each stored UUID until one
// matches fileUUID, then decrypts and returns that row's data.
func (s *Store) LoadFile(fileUUID uuid.UUID) (data []byte, found bool, err error) {
	if err := ensureFilesTable(s.db); err != nil {
		return nil, false, err
	}

	rows, err := s.db.Query(`SELECT uuid, data FROM files`)
	if err != nil {
		return nil, false, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var encID, encData []byte
		if err := rows.Scan(&encID, &encData); err != nil {
			return nil, false, fmt.Errorf("scan file: %w", err)
		}
		id, err := decryptUUID(s.masterKey, encID)
		if err != nil {
			continue
		}
		if id != fileUUID {
			continue
		}
		plain, err := primitives.Decrypt(s.masterKey, encData)
		if err != nil {
			return nil, false, fmt.Errorf("decrypt file data: %w", err)
		}
		return plain, true, nil
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate files: %w", err)
	}
	return nil, false, nil
}

// ClearCache removes orphan files (no owning contact) and orphan avatars
// (not referenced by any contact). If the contacts table does not exist
// yet, the files and avatars tables are dropped outright rather than
// queried against a contacts table that was never created.
func (s *Store) ClearCache() error {
	exists, err := contactsTableExists(s.db)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS files`); err != nil {
			return fmt.Errorf("drop files table: %w", err)
		}
		if _, err := s.db.Exec(`DROP TABLE IF EXISTS avatars`); err != nil {
			return fmt.Errorf("drop avatars table: %w", err)
		}
		return nil
	}

	if err := ensureFilesTable(s.db); err != nil {
		return err
	}
	if err := ensureAvatarsTable(s.db); err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM files WHERE contact_uuid IS NULL`); err != nil {
		return fmt.Errorf("delete orphan files: %w", err)
	}

	_, err = s.db.Exec(`DELETE FROM avatars WHERE uuid NOT IN (
		SELECT avatar FROM contacts WHERE avatar IS NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("delete orphan avatars: %w", err)
	}
	return nil
}

// DeleteConversation drops the contact's per-conversation message table
// and deletes its file rows, without touching the contacts row itself.
func (s *Store) DeleteConversation(contactUUID uuid.UUID) error {
	if err := ensureFilesTable(s.db); err != nil {
		return err
	}

	dropStmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, messageTableName(contactUUID))
	if _, err := s.db.Exec(dropStmt); err != nil {
		return fmt.Errorf("drop message table: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM files WHERE contact_uuid = ?`, contactUUID[:]); err != nil {
		return fmt.Errorf("delete conversation files: %w", err)
	}
	return nil
}
