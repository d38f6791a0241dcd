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
	"fmt"

	"github.com/google/uuid"

	"github.com/aira-project/aira-core/crypto/primitives"
	"github.com/aira-project/aira-core/internal/logger"
)

// Message is the decrypted view of one row in a per-contact message table.
type Message struct {
	Outgoing  bool
	Timestamp uint64
	Data      []byte
}

func ensureMessageTable(s *Store, contactUUID uuid.UUID) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (outgoing BLOB, timestamp BLOB, data BLOB)`, messageTableName(contactUUID))
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create message table: %w", err)
	}
	return nil
}

// StoreMessage appends one row to the contact's per-conversation table,
// creating the table on first use.
func (s *Store) StoreMessage(contactUUID uuid.UUID, msg Message) error {
	if err := ensureMessageTable(s, contactUUID); err != nil {
		return err
	}

	encOutgoing, err := encryptBool(s.masterKey, msg.Outgoing)
	if err != nil {
		return fmt.Errorf("encrypt outgoing: %w", err)
	}
	encTimestamp, err := encryptUint64(s.masterKey, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("encrypt timestamp: %w", err)
	}
	encData, err := primitives.Encrypt(s.masterKey, msg.Data)
	if err != nil {
		return fmt.Errorf("encrypt data: %w", err)
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (outgoing, timestamp, data) VALUES (?, ?, ?)`, messageTableName(contactUUID))
	if _, err := s.db.Exec(stmt, encOutgoing, encTimestamp, encData); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// LoadMessages returns the count messages ending offset rows before the
// newest, in storage (oldest-first) order within that window. offset
// counts from the newest end: offset=0 means the window ends at the most
// recently stored message. If offset+count exceeds the total, count is
// clamped; if offset is at or beyond the total, ErrOffsetOutOfRange is
// returned. Rows that fail to decrypt are logged and skipped; skipped
// reports how many were dropped from the requested window.
func (s *Store) LoadMessages(contactUUID uuid.UUID, offset, count uint64) (messages []Message, skipped int, err error) {
	if err := ensureMessageTable(s, contactUUID); err != nil {
		return nil, 0, err
	}

	table := messageTableName(contactUUID)

	var total uint64
	if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	if offset >= total {
		return nil, 0, ErrOffsetOutOfRange
	}

	window := count
	if offset+window > total {
		window = total - offset
	}
	sqlOffset := total - offset - window

	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT outgoing, timestamp, data FROM %s ORDER BY rowid ASC LIMIT ? OFFSET ?`, table),
		window, sqlOffset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var encOutgoing, encTimestamp, encData []byte
		if err := rows.Scan(&encOutgoing, &encTimestamp, &encData); err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}

		msg, decErr := s.decryptMessageRow(encOutgoing, encTimestamp, encData)
		if decErr != nil {
			skipped++
			if s.log != nil {
				s.log.Warn("skipping corrupted message row", logger.String("contact", contactUUID.String()), logger.Error(decErr))
			}
			continue
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, skipped, nil
}

func (s *Store) decryptMessageRow(encOutgoing, encTimestamp, encData []byte) (*Message, error) {
	outgoing, err := decryptBool(s.masterKey, encOutgoing)
	if err != nil {
		return nil, fmt.Errorf("decrypt outgoing: %w", err)
	}
	timestamp, err := decryptUint64(s.masterKey, encTimestamp)
	if err != nil {
		return nil, fmt.Errorf("decrypt timestamp: %w", err)
	}
	data, err := primitives.Decrypt(s.masterKey, encData)
	if err != nil {
		return nil, fmt.Errorf("decrypt data: %w", err)
	}
	return &Message{Outgoing: outgoing, Timestamp: timestamp, Data: data}, nil
}
