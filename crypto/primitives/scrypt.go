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

package primitives

import (
	"crypto/rand"

	"golang.org/x/crypto/scrypt"
)

// SaltLen is the size of the scrypt salt stored alongside a wrapped master key.
const SaltLen = 32

// PasswordHashLen is the scrypt output size used as an AEAD key.
const PasswordHashLen = 32

// ScryptParams holds the cost parameters for the password KDF. Production
// code must use DefaultScryptParams; weaker parameters exist only so tests
// don't pay the full cost on every run.
type ScryptParams struct {
	LogN int
	R    int
	P    int
}

// DefaultScryptParams are the spec-fixed production cost parameters:
// log2(N)=16, r=8, p=1.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{LogN: 16, R: 8, P: 1}
}

// DeriveKey runs scrypt(password, salt) with params, producing a
// PasswordHashLen-byte key suitable for use as an AEAD key.
func DeriveKey(password, salt []byte, params ScryptParams) ([]byte, error) {
	n := 1 << uint(params.LogN)
	return scrypt.Key(password, salt, n, params.R, params.P, PasswordHashLen)
}

// GenerateSalt samples a fresh random salt of SaltLen bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}
