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

// Package vault wraps and unwraps the 32-byte identity master key under an
// optional user password. An unprotected identity stores the master key
// verbatim; a protected one stores it sealed under a scrypt-derived key
// alongside the salt that produced it. Changing a password re-wraps the
// same master key: every row ever sealed under it stays valid without
// re-encryption.
package vault

import (
	airacrypto "github.com/aira-project/aira-core/crypto"
	"github.com/aira-project/aira-core/crypto/primitives"
)

// WrappedLen is the size of a protected master key blob: IV || ciphertext
// (32 bytes) || tag.
const WrappedLen = primitives.IVLen + primitives.MasterKeyLen + primitives.TagLen

// Wrapped is what gets persisted in the metadata row: a salt and a master
// key field. For an unprotected identity, Salt is 32 zero bytes and
// MasterKey is the 32-byte key itself. For a protected identity, Salt is
// the scrypt salt and MasterKey is the WrappedLen-byte sealed blob.
type Wrapped struct {
	Salt      []byte
	MasterKey []byte
}

// Wrap seals masterKey for storage under the spec-fixed production scrypt
// cost. See WrapWithParams for the password-protected case's detail.
func Wrap(masterKey, password []byte) (*Wrapped, error) {
	return WrapWithParams(masterKey, password, primitives.DefaultScryptParams())
}

// WrapWithParams seals masterKey for storage using params as the scrypt
// cost, instead of always paying DefaultScryptParams's production cost.
// Callers outside of development/test tooling should use Wrap: params is
// only meant to be overridden from config.ScryptConfig in a non-production
// environment, never in a deployed identity store.
//
// If password is empty, masterKey is stored verbatim with an all-zero salt
// (an unprotected identity). Otherwise a fresh salt is sampled,
// pw_hash = scrypt(password, salt, params) is derived, and masterKey is
// sealed under pw_hash. The derived pw_hash is zeroized before returning in
// either case.
func WrapWithParams(masterKey, password []byte, params primitives.ScryptParams) (*Wrapped, error) {
	if len(masterKey) != primitives.MasterKeyLen {
		return nil, airacrypto.ErrInvalidLength
	}

	if len(password) == 0 {
		salt := make([]byte, primitives.SaltLen)
		plain := make([]byte, primitives.MasterKeyLen)
		copy(plain, masterKey)
		return &Wrapped{Salt: salt, MasterKey: plain}, nil
	}

	salt, err := primitives.GenerateSalt()
	if err != nil {
		return nil, err
	}

	pwHash, err := primitives.DeriveKey(password, salt, params)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(pwHash)

	sealed, err := primitives.Encrypt(pwHash, masterKey)
	if err != nil {
		return nil, err
	}

	return &Wrapped{Salt: salt, MasterKey: sealed}, nil
}

// Unwrap recovers the master key from a stored (salt, masterKey) pair using
// the spec-fixed production scrypt cost. See UnwrapWithParams for detail.
func Unwrap(salt, masterKey, password []byte) ([]byte, error) {
	return UnwrapWithParams(salt, masterKey, password, primitives.DefaultScryptParams())
}

// UnwrapWithParams recovers the master key from a stored (salt, masterKey)
// pair using params as the scrypt cost. If masterKey is exactly
// MasterKeyLen bytes, the identity is unprotected and it is returned
// directly regardless of password or params. Otherwise masterKey must be
// exactly WrappedLen bytes and is opened with a scrypt key derived from
// password, salt, and params; a wrong password surfaces as
// ErrDecryptionFailed, while malformed field lengths, or an empty password
// for a protected identity, surface as ErrInvalidLength. The derived
// pw_hash is zeroized in every case.
func UnwrapWithParams(salt, masterKey, password []byte, params primitives.ScryptParams) ([]byte, error) {
	if len(masterKey) == primitives.MasterKeyLen {
		plain := make([]byte, primitives.MasterKeyLen)
		copy(plain, masterKey)
		return plain, nil
	}

	if len(masterKey) != WrappedLen || len(salt) != primitives.SaltLen {
		return nil, airacrypto.ErrInvalidLength
	}
	if len(password) == 0 {
		return nil, airacrypto.ErrInvalidLength
	}

	pwHash, err := primitives.DeriveKey(password, salt, params)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(pwHash)

	return primitives.Decrypt(pwHash, masterKey)
}

// IsProtected reports whether a stored master key field represents a
// password-protected identity (anything other than exactly MasterKeyLen
// bytes).
func IsProtected(masterKey []byte) bool {
	return len(masterKey) != primitives.MasterKeyLen
}

// ChangePassword unwraps masterKey with oldPassword and re-wraps the same
// key under newPassword (or stores it plain if newPassword is empty). It
// returns ErrDecryptionFailed if oldPassword is wrong and ErrInvalidLength
// if the stored fields are corrupted; callers MUST treat the former as a
// user-facing "wrong password" and the latter as "database corrupted".
// Every contact and message row sealed under the master key stays valid
// unchanged: only the wrapping changes, never the key it wraps.
func ChangePassword(salt, masterKey []byte, oldPassword, newPassword []byte) (*Wrapped, error) {
	return ChangePasswordWithParams(salt, masterKey, oldPassword, newPassword, primitives.DefaultScryptParams())
}

// ChangePasswordWithParams is ChangePassword with an overridable scrypt
// cost, for the same non-production use as WrapWithParams/UnwrapWithParams.
func ChangePasswordWithParams(salt, masterKey []byte, oldPassword, newPassword []byte, params primitives.ScryptParams) (*Wrapped, error) {
	plain, err := UnwrapWithParams(salt, masterKey, oldPassword, params)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(plain)

	return WrapWithParams(plain, newPassword, params)
}
