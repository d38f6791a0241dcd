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

// Package primitives implements the identity core's cryptographic building
// blocks: HKDF-SHA384 label expansion, the scrypt password KDF, AEAD
// seal/open over a master key, secret zeroization, and peer fingerprinting.
package primitives

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// HashSize is the output size of SHA-384, used for every traffic secret and
// the HKDF-Extract pseudorandom key.
const HashSize = sha512.Size384

// Extract runs HKDF-Extract(salt, ikm) with SHA-384.
func Extract(salt, ikm []byte) []byte {
	return hkdf.Extract(sha512.New384, ikm, salt)
}

// ExpandLabel produces length bytes of HKDF-SHA384-Expand output over the
// info string
//
//	BE32(len(label)) || label [ || BE32(len(context)) || context ]
//
// This is deliberately not the TLS 1.3 HkdfLabel wire format: there is no
// "tls13 " prefix and no 2-byte length, only a plain 4-byte big-endian
// length prefix. The framing is part of the wire contract and must not be
// "fixed" to look more like TLS 1.3.
func ExpandLabel(prk []byte, label string, context []byte, length int) ([]byte, error) {
	info := make([]byte, 0, 4+len(label)+4+len(context))
	info = appendLengthPrefixed(info, []byte(label))
	if context != nil {
		info = appendLengthPrefixed(info, context)
	}

	out := make([]byte, length)
	reader := hkdf.Expand(sha512.New384, prk, info)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

func appendLengthPrefixed(dst, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, data...)
	return dst
}

// Fingerprint derives the 32-character uppercase hex fingerprint of a
// public key: HKDF-SHA384(salt=none, ikm=publicKey).Expand(info="", 16).
func Fingerprint(publicKey []byte) string {
	reader := hkdf.New(sha512.New384, publicKey, nil, nil)
	buf := make([]byte, 16)
	// hkdf.New's reader only fails if more than 255*HashSize bytes are
	// requested; 16 bytes never triggers that.
	_, _ = io.ReadFull(reader, buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}

// FinishedMAC computes HMAC-SHA384(finishedKey, handshakeHash).
func FinishedMAC(finishedKey, handshakeHash []byte) []byte {
	mac := hmac.New(sha512.New384, finishedKey)
	mac.Write(handshakeHash)
	return mac.Sum(nil)
}

// VerifyFinishedMAC compares a received Finished MAC against the expected
// one in constant time.
func VerifyFinishedMAC(finishedKey, handshakeHash, received []byte) bool {
	expected := FinishedMAC(finishedKey, handshakeHash)
	return hmac.Equal(expected, received)
}
