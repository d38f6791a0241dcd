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

import "errors"

// ErrNotFound is returned by the key-value store when a key does not exist,
// distinct from any other engine error.
var ErrNotFound = errors.New("store: key not found")

// ErrOffsetOutOfRange is returned by LoadMessages when offset is at or
// beyond the total number of stored messages.
var ErrOffsetOutOfRange = errors.New("store: offset out of range")

// ErrAlreadyExists is returned by CreateIdentityRow when the folder's
// database already holds a metadata row.
var ErrAlreadyExists = errors.New("store: identity already exists in this folder")
