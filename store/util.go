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
	"encoding/binary"

	airacrypto "github.com/aira-project/aira-core/crypto"
	"github.com/aira-project/aira-core/crypto/primitives"
	"github.com/google/uuid"
)

func zeroize(b []byte) {
	primitives.Zeroize(b)
}

func encryptBool(masterKey []byte, v bool) ([]byte, error) {
	return primitives.Encrypt(masterKey, primitives.EncodeBool(v))
}

func decryptBool(masterKey, sealed []byte) (bool, error) {
	plain, err := primitives.Decrypt(masterKey, sealed)
	if err != nil {
		return false, err
	}
	return primitives.DecodeBool(plain)
}

func encryptUint64(masterKey []byte, v uint64) ([]byte, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return primitives.Encrypt(masterKey, buf[:])
}

func decryptUint64(masterKey, sealed []byte) (uint64, error) {
	plain, err := primitives.Decrypt(masterKey, sealed)
	if err != nil {
		return 0, err
	}
	if len(plain) != 8 {
		return 0, airacrypto.ErrDecryptionFailed
	}
	return binary.BigEndian.Uint64(plain), nil
}

func encryptUUID(masterKey []byte, id uuid.UUID) ([]byte, error) {
	return primitives.Encrypt(masterKey, id[:])
}

func decryptUUID(masterKey, sealed []byte) (uuid.UUID, error) {
	plain, err := primitives.Decrypt(masterKey, sealed)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.FromBytes(plain)
}
