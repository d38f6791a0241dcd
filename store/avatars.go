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

func ensureAvatarsTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS avatars (uuid BLOB PRIMARY KEY, data BLOB)`)
	if err != nil {
		return fmt.Errorf("create avatars table: %w", err)
	}
	return nil
}

// StoreAvatar encrypts data and inserts it keyed by a fresh plaintext UUID.
func (s *Store) StoreAvatar(data []byte) (uuid.UUID, error) {
	if err := ensureAvatarsTable(s.db); err != nil {
		return uuid.UUID{}, err
	}

	id := uuid.New()
	encData, err := primitives.Encrypt(s.masterKey, data)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("encrypt avatar: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO avatars (uuid, data) VALUES (?, ?)`, id[:], encData)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("insert avatar: %w", err)
	}
	return id, nil
}

// GetAvatar decrypts and returns the avatar stored under avatarUUID.
func (s *Store) GetAvatar(avatarUUID uuid.UUID) (data []byte, found bool, err error) {
	if err := ensureAvatarsTable(s.db); err != nil {
		return nil, false, err
	}

	var encData []byte
	err = s.db.QueryRow(`SELECT data FROM avatars WHERE uuid = ?`, avatarUUID[:]).Scan(&encData)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get avatar: %w", err)
	}

	plain, err := primitives.Decrypt(s.masterKey, encData)
	if err != nil {
		return nil, false, fmt.Errorf("decrypt avatar: %w", err)
	}
	return plain, true, nil
}
