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
)

// KVStore is a thin typed accessor over a single (key TEXT, value BLOB)
// table whose name is fixed at construction. Every statement binds key and
// value as query parameters; the table name itself is only ever a Go
// string literal supplied by the caller of NewKVStore, never derived from
// untrusted input.
type KVStore struct {
	db    *sql.DB
	table string
}

// NewKVStore creates the backing table if it does not already exist and
// returns a store scoped to it.
func NewKVStore(db *sql.DB, table string) (*KVStore, error) {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value BLOB)`, quoteIdentifier(table))
	if _, err := db.Exec(stmt); err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return &KVStore{db: db, table: table}, nil
}

// Get returns the raw value stored under key, or ErrNotFound if no such
// row exists.
func (s *KVStore) Get(key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = ?`, quoteIdentifier(s.table))
	var value []byte
	err := s.db.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Set inserts a new (key, value) row. It fails if key already exists,
// surfacing the engine's unique-constraint error verbatim.
func (s *KVStore) Set(key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)`, quoteIdentifier(s.table))
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Update overwrites the value of an existing key.
func (s *KVStore) Update(key string, value []byte) error {
	query := fmt.Sprintf(`UPDATE %s SET value = ? WHERE key = ?`, quoteIdentifier(s.table))
	if _, err := s.db.Exec(query, value, key); err != nil {
		return fmt.Errorf("update %q: %w", key, err)
	}
	return nil
}

// Upsert inserts key if absent, otherwise overwrites its value.
func (s *KVStore) Upsert(key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, quoteIdentifier(s.table))
	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

// Del removes a key. Deleting a key that does not exist is not an error.
func (s *KVStore) Del(key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, quoteIdentifier(s.table))
	if _, err := s.db.Exec(query, key); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	return nil
}

const mainTable = "main"

func ensureMainTable(db *sql.DB) error {
	_, err := NewKVStore(db, mainTable)
	return err
}

func mainKV(db *sql.DB) (*KVStore, error) {
	return NewKVStore(db, mainTable)
}
