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

import airacrypto "github.com/aira-project/aira-core/crypto"

// errInvalidBoolEncoding is returned when a decrypted boolean byte is
// neither TrueByte nor FalseByte: the row is corrupted, the same failure
// class as an AEAD tag mismatch.
var errInvalidBoolEncoding = airacrypto.ErrDecryptionFailed

// Zeroize overwrites b with zero bytes in place. Callers hold the only
// reference to secret buffers (derived password hashes, unwrapped master
// keys, signing seeds) for exactly as long as they're needed; every
// success and failure path that stops using one must call Zeroize before
// letting it go out of scope.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// AllZero reports whether every byte of b is zero, used by tests to
// confirm a buffer was actually zeroized.
func AllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

const (
	// TrueByte is the at-rest encoding of the boolean value true.
	TrueByte byte = 0x4B
	// FalseByte is the at-rest encoding of the boolean value false.
	FalseByte byte = 0x1E
)

// EncodeBool returns the single-byte at-rest encoding of b, to be sealed
// with Encrypt before storage.
func EncodeBool(b bool) []byte {
	if b {
		return []byte{TrueByte}
	}
	return []byte{FalseByte}
}

// DecodeBool decodes a single decrypted byte back into a boolean. Any byte
// other than TrueByte or FalseByte indicates a corrupted row.
func DecodeBool(decrypted []byte) (bool, error) {
	if len(decrypted) != 1 {
		return false, errInvalidBoolEncoding
	}
	switch decrypted[0] {
	case TrueByte:
		return true, nil
	case FalseByte:
		return false, nil
	default:
		return false, errInvalidBoolEncoding
	}
}
