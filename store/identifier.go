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
	"strings"

	"github.com/google/uuid"
)

// messageTableName canonicalizes contactUUID to its 36-character hyphenated
// form and returns a double-quoted SQL identifier safe to splice into a
// CREATE/DROP/SELECT statement. SQL does not allow identifiers to be bound
// as query parameters, so every per-contact table name is instead forced
// through uuid.UUID (which can only ever produce the canonical form) before
// it is ever formatted into a statement.
func messageTableName(contactUUID uuid.UUID) string {
	return quoteIdentifier(contactUUID.String())
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// parseCanonicalUUID parses s and rejects it unless it round-trips through
// the canonical hyphenated form, closing off non-canonical encodings
// (Microsoft GUID braces, URN prefix, bare hex) that uuid.Parse otherwise
// accepts but that would still need quoting-independent validation before
// ever reaching a table name.
func parseCanonicalUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	if id.String() != s {
		return uuid.UUID{}, fmt.Errorf("uuid %q is not in canonical form", s)
	}
	return id, nil
}
