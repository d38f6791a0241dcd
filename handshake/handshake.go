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

// Package handshake derives the per-session traffic keys that protect an
// AIRA session after its X25519 key exchange. It implements a TLS-1.3-style
// key schedule over HKDF-SHA384, with its own role labels and wire framing
// (see crypto/primitives for the framing details): handshake traffic
// secrets are derived directly from the exchange's shared secret, and
// application traffic secrets are derived from the handshake secret through
// an intermediate "derived" secret, exactly mirroring TLS 1.3's schedule
// shape without being wire-compatible with it.
package handshake

import (
	"github.com/aira-project/aira-core/crypto/primitives"
)

// KeyLen and IVLen are the sizes of the per-direction AEAD key material
// derived at the end of each traffic secret chain.
const (
	KeyLen = 16
	IVLen  = 12
)

// HashLen is the size of every traffic secret, equal to primitives.HashSize.
const HashLen = primitives.HashSize

// HandshakeKeys holds the traffic secrets and derived AEAD key material for
// both directions of a handshake, plus the handshake_secret needed to move
// on to DeriveApplicationKeys.
type HandshakeKeys struct {
	HandshakeSecret         []byte
	LocalTrafficSecret      []byte
	LocalKey                []byte
	LocalIV                 []byte
	PeerTrafficSecret       []byte
	PeerKey                 []byte
	PeerIV                  []byte
}

// ApplicationKeys holds the derived AEAD key material for both directions
// of the post-handshake application traffic.
type ApplicationKeys struct {
	LocalKey []byte
	LocalIV  []byte
	PeerKey  []byte
	PeerIV   []byte
}

// roleLabels returns the (local, peer) HKDF labels for a traffic secret
// pair. handshake selects between the "handshake_*" and "application_*"
// label families; iAmBob swaps which side is local.
func roleLabels(handshake, iAmBob bool) (local, peer string) {
	prefix := "application_i_am_"
	if handshake {
		prefix = "handshake_i_am_"
	}
	if iAmBob {
		return prefix + "bob", prefix + "alice"
	}
	return prefix + "alice", prefix + "bob"
}

// DeriveHandshakeKeys computes the handshake secret and both directions'
// handshake traffic secrets and AEAD key material from the raw X25519
// shared secret and the running transcript hash. iAmBob selects which of
// the two fixed role labels names this side.
func DeriveHandshakeKeys(sharedSecret, handshakeHash []byte, iAmBob bool) (*HandshakeKeys, error) {
	handshakeSecret := primitives.Extract(nil, sharedSecret)

	localLabel, peerLabel := roleLabels(true, iAmBob)

	localTrafficSecret, err := primitives.ExpandLabel(handshakeSecret, localLabel, handshakeHash, HashLen)
	if err != nil {
		return nil, err
	}
	peerTrafficSecret, err := primitives.ExpandLabel(handshakeSecret, peerLabel, handshakeHash, HashLen)
	if err != nil {
		return nil, err
	}

	localKey, localIV, err := deriveKeyIV(localTrafficSecret)
	if err != nil {
		return nil, err
	}
	peerKey, peerIV, err := deriveKeyIV(peerTrafficSecret)
	if err != nil {
		return nil, err
	}

	return &HandshakeKeys{
		HandshakeSecret:    handshakeSecret,
		LocalTrafficSecret: localTrafficSecret,
		LocalKey:           localKey,
		LocalIV:            localIV,
		PeerTrafficSecret:  peerTrafficSecret,
		PeerKey:            peerKey,
		PeerIV:             peerIV,
	}, nil
}

// DeriveApplicationKeys computes the application traffic AEAD key material
// from the handshake secret produced by DeriveHandshakeKeys, through the
// TLS-1.3-style "derived" secret and a fresh HKDF-Extract with empty IKM.
func DeriveApplicationKeys(handshakeSecret, handshakeHash []byte, iAmBob bool) (*ApplicationKeys, error) {
	derivedSecret, err := primitives.ExpandLabel(handshakeSecret, "derived", nil, HashLen)
	if err != nil {
		return nil, err
	}
	masterSecret := primitives.Extract(derivedSecret, []byte{})

	localLabel, peerLabel := roleLabels(false, iAmBob)

	localTrafficSecret, err := primitives.ExpandLabel(masterSecret, localLabel, handshakeHash, HashLen)
	if err != nil {
		return nil, err
	}
	peerTrafficSecret, err := primitives.ExpandLabel(masterSecret, peerLabel, handshakeHash, HashLen)
	if err != nil {
		return nil, err
	}

	localKey, localIV, err := deriveKeyIV(localTrafficSecret)
	if err != nil {
		return nil, err
	}
	peerKey, peerIV, err := deriveKeyIV(peerTrafficSecret)
	if err != nil {
		return nil, err
	}

	return &ApplicationKeys{
		LocalKey: localKey,
		LocalIV:  localIV,
		PeerKey:  peerKey,
		PeerIV:   peerIV,
	}, nil
}

func deriveKeyIV(trafficSecret []byte) (key, iv []byte, err error) {
	key, err = primitives.ExpandLabel(trafficSecret, "key", nil, KeyLen)
	if err != nil {
		return nil, nil, err
	}
	iv, err = primitives.ExpandLabel(trafficSecret, "iv", nil, IVLen)
	if err != nil {
		return nil, nil, err
	}
	return key, iv, nil
}

// ComputeFinished computes the Finished MAC over the running handshake
// hash under the given side's handshake traffic secret, sent at the end of
// a handshake to prove possession of the derived keys.
func ComputeFinished(trafficSecret, handshakeHash []byte) ([]byte, error) {
	finishedKey, err := primitives.ExpandLabel(trafficSecret, "finished", nil, HashLen)
	if err != nil {
		return nil, err
	}
	return primitives.FinishedMAC(finishedKey, handshakeHash), nil
}

// VerifyFinished checks a peer's Finished MAC against the peer's handshake
// traffic secret and the locally computed handshake hash, in constant time.
func VerifyFinished(peerFinished, peerTrafficSecret, handshakeHash []byte) (bool, error) {
	finishedKey, err := primitives.ExpandLabel(peerTrafficSecret, "finished", nil, HashLen)
	if err != nil {
		return false, err
	}
	return primitives.VerifyFinishedMAC(finishedKey, handshakeHash, peerFinished), nil
}

// Fingerprint returns the 32-character uppercase hex fingerprint of a peer's
// public key, used to let users verify identity out-of-band.
func Fingerprint(publicKey []byte) string {
	return primitives.Fingerprint(publicKey)
}
