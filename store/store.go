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

// Package store implements the two storage-facing components of the
// identity core: a thin key-value wrapper over a single (key, value) table
// (the metadata store), and the encrypted identity store that persists
// contacts, messages, files, and avatars under a per-identity master key.
// The backing engine is SQLite, one "AIRA.db" file per identity folder.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aira-project/aira-core/internal/logger"
)

// DBFileName is the name of the SQLite database file inside each identity
// folder.
const DBFileName = "AIRA.db"

// OpenDB opens (creating if necessary) the SQLite database at path and
// ensures the metadata table exists.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := ensureMainTable(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Store is the encrypted identity store (C5): every operation that reads
// or writes a contact, message, file, or avatar field encrypts or decrypts
// it under masterKey. Store holds no connection of its own state beyond
// the handle and key; every method opens whatever statements it needs on
// the shared *sql.DB for the duration of the call.
type Store struct {
	db        *sql.DB
	masterKey []byte
	log       logger.Logger
}

// New wraps db with masterKey for use by the C5 operations. log receives a
// Warn entry for every row skipped during a bulk read; it may be nil.
func New(db *sql.DB, masterKey []byte, log logger.Logger) *Store {
	return &Store{db: db, masterKey: masterKey, log: log}
}

// Zeroize overwrites masterKey and signingSecret with zero bytes. It does
// not close the database handle; callers release that separately.
func Zeroize(masterKey, signingSecret []byte) {
	zeroize(masterKey)
	zeroize(signingSecret)
}
