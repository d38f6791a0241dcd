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

// Package crypto holds the sentinel error taxonomy and key abstractions
// shared by the identity core's cryptographic subpackages.
//
// This file is intentionally minimal to avoid circular dependencies; the
// actual algorithms live in:
//   - crypto/keys: the identity's Ed25519 signing keypair
//   - crypto/primitives: HKDF-Expand-Label, AEAD, scrypt, zeroization, fingerprint
//   - internal/aesgcmsiv: the AES-256-GCM-SIV AEAD construction
package crypto
