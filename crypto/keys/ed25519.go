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

// Package keys implements the identity core's Ed25519 signing keypair.
package keys

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	airacrypto "github.com/aira-project/aira-core/crypto"
)

// Ed25519KeyPair implements crypto.KeyPair for Ed25519 identity keys. It is
// exported (unlike a typical internal keypair type) because the identity
// core needs to read back the raw seed and public key bytes to persist and
// reload them across process restarts.
type Ed25519KeyPair struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	id         string
}

// GenerateEd25519KeyPair generates a fresh Ed25519 signing keypair.
func GenerateEd25519KeyPair() (*Ed25519KeyPair, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return newEd25519KeyPair(publicKey, privateKey), nil
}

// NewEd25519KeyPairFromSeed reconstructs a keypair from its 32-byte Ed25519
// seed, as stored (encrypted) in the identity's metadata row.
func NewEd25519KeyPairFromSeed(seed []byte) (*Ed25519KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, airacrypto.ErrInvalidLength
	}
	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := privateKey.Public().(ed25519.PublicKey)
	return newEd25519KeyPair(publicKey, privateKey), nil
}

func newEd25519KeyPair(publicKey ed25519.PublicKey, privateKey ed25519.PrivateKey) *Ed25519KeyPair {
	hash := sha256.Sum256(publicKey)
	return &Ed25519KeyPair{
		privateKey: privateKey,
		publicKey:  publicKey,
		id:         hex.EncodeToString(hash[:8]),
	}
}

// PublicKey returns the public key.
func (kp *Ed25519KeyPair) PublicKey() crypto.PublicKey {
	return kp.publicKey
}

// PrivateKey returns the private key.
func (kp *Ed25519KeyPair) PrivateKey() crypto.PrivateKey {
	return kp.privateKey
}

// Type returns the key type.
func (kp *Ed25519KeyPair) Type() airacrypto.KeyType {
	return airacrypto.KeyTypeEd25519
}

// Sign signs the given message.
func (kp *Ed25519KeyPair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(kp.privateKey, message), nil
}

// Verify verifies the signature.
func (kp *Ed25519KeyPair) Verify(message, signature []byte) error {
	if !ed25519.Verify(kp.publicKey, message, signature) {
		return airacrypto.ErrInvalidSignature
	}
	return nil
}

// ID returns a short identifier derived from the public key, used only for
// logging; it is not the fingerprint defined by the handshake package.
func (kp *Ed25519KeyPair) ID() string {
	return kp.id
}

// Seed returns the 32-byte Ed25519 seed, the form in which the signing
// secret is persisted (encrypted) in the metadata store.
func (kp *Ed25519KeyPair) Seed() []byte {
	return kp.privateKey.Seed()
}

// PublicBytes returns the raw 32-byte Ed25519 public key.
func (kp *Ed25519KeyPair) PublicBytes() []byte {
	out := make([]byte, ed25519.PublicKeySize)
	copy(out, kp.publicKey)
	return out
}

// Zeroize overwrites the keypair's private key bytes in place. Seed()
// returns a fresh copy on every call, so this is the only way to actually
// scrub the signing secret this keypair holds from memory.
func (kp *Ed25519KeyPair) Zeroize() {
	for i := range kp.privateKey {
		kp.privateKey[i] = 0
	}
}
