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

	airacrypto "github.com/aira-project/aira-core/crypto"
	"github.com/aira-project/aira-core/internal/aesgcmsiv"
)

// IVLen is the AEAD nonce length.
const IVLen = aesgcmsiv.NonceSize

// TagLen is the AEAD authentication tag length.
const TagLen = aesgcmsiv.TagSize

// MasterKeyLen is the size of a generated master key in bytes.
const MasterKeyLen = 32

// Encrypt seals plaintext under a 32-byte master key with a freshly
// sampled IV, producing IV || ciphertext || tag.
func Encrypt(masterKey, plaintext []byte) ([]byte, error) {
	if len(masterKey) != MasterKeyLen {
		return nil, airacrypto.ErrInvalidLength
	}

	iv := make([]byte, IVLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	sealed, err := aesgcmsiv.Seal(masterKey, iv, plaintext)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(iv)+len(sealed))
	out = append(out, iv...)
	out = append(out, sealed...)
	return out, nil
}

// Decrypt opens a value previously produced by Encrypt. It returns
// ErrInvalidLength if data is shorter than IVLen+TagLen, and
// ErrDecryptionFailed if the tag does not verify.
func Decrypt(masterKey, data []byte) ([]byte, error) {
	if len(masterKey) != MasterKeyLen {
		return nil, airacrypto.ErrInvalidLength
	}
	if len(data) < IVLen+TagLen {
		return nil, airacrypto.ErrInvalidLength
	}

	iv := data[:IVLen]
	sealed := data[IVLen:]

	plaintext, err := aesgcmsiv.Open(masterKey, iv, sealed)
	if err != nil {
		return nil, airacrypto.ErrDecryptionFailed
	}
	return plaintext, nil
}

// GenerateMasterKey samples a fresh 32-byte master key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, MasterKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
