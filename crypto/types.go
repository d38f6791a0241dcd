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

package crypto

import (
	"crypto"
	"errors"
)

// KeyType identifies the algorithm family of a KeyPair.
type KeyType string

const (
	// KeyTypeEd25519 is the only signing algorithm the identity core uses.
	KeyTypeEd25519 KeyType = "Ed25519"
)

// KeyPair is a signing keypair: the identity's long-lived Ed25519 key.
type KeyPair interface {
	PublicKey() crypto.PublicKey
	PrivateKey() crypto.PrivateKey
	Type() KeyType
	Sign(message []byte) ([]byte, error)
	Verify(message, signature []byte) error
	ID() string
}

// Sentinel errors shared across the crypto keys, crypto primitives, vault
// and store packages. Fields are always wrapped (fmt.Errorf("...: %w")) except
// where a caller needs to branch on the exact failure kind, in which case
// one of these is returned directly or via errors.Is.
var (
	// ErrInvalidSignature is returned by KeyPair.Verify on a bad signature.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidLength is returned whenever a buffer's size is inconsistent
	// with the layout the operation expects (an encrypted field shorter
	// than IV+tag, a key of the wrong size, ...).
	ErrInvalidLength = errors.New("invalid buffer length")

	// ErrDecryptionFailed is returned on AEAD tag mismatch: either a wrong
	// password at the vault boundary, or a corrupted stored row.
	ErrDecryptionFailed = errors.New("decryption failed")
)
