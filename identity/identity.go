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

// Package identity implements the process-wide identity singleton (C6):
// at most one identity is "loaded" at a time, guarded by a mutex, with a
// lifecycle of create/load → use → release. Every Manager method acquires
// the Manager's lock for the duration of the call. The package-level
// IsProtected, GetIdentityName and ChangePassword functions open their own
// connection and take no Manager lock, and calls made through a loaded
// Identity's Store are not serialized by it either.
package identity

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	airacrypto "github.com/aira-project/aira-core/crypto"
	"github.com/aira-project/aira-core/config"
	"github.com/aira-project/aira-core/crypto/keys"
	"github.com/aira-project/aira-core/crypto/primitives"
	"github.com/aira-project/aira-core/internal/logger"
	"github.com/aira-project/aira-core/store"
	"github.com/aira-project/aira-core/vault"
)

// Concurrent callers asking the same read-only question about the same
// folder (e.g. a UI polling is_protected on several contacts' folders at
// once) share a single database open+read instead of each opening their own
// connection. This is unrelated to Manager's mutex, which protects a
// different invariant (at most one *loaded* identity at a time) and cannot
// be replaced by singleflight: two concurrent LoadIdentity calls for
// different folders must not be collapsed into one, since they would load
// two different identities into the same slot.
var (
	isProtectedGroup  singleflight.Group
	identityNameGroup singleflight.Group
)

// Sentinel errors surfaced to callers of load_identity / change_password.
var (
	// ErrDatabaseCorrupted is returned when the stored salt/master-key
	// fields are malformed, or a protected identity is opened with no
	// password (InvalidLength at the vault boundary); never for a wrong
	// password. A folder with no metadata row fails earlier, with a wrapped
	// store.ErrNotFound.
	ErrDatabaseCorrupted = errors.New("identity: database corrupted")

	// ErrBadPassword is returned when the master key fails to unwrap
	// under the supplied password (DecryptionFailed at the vault
	// boundary).
	ErrBadPassword = errors.New("identity: bad password")

	// ErrAlreadyLoaded is returned by create_identity/load_identity when
	// the process-wide slot already holds an identity.
	ErrAlreadyLoaded = errors.New("identity: another identity is already loaded")

	// ErrNoneLoaded is returned by release when nothing is loaded.
	ErrNoneLoaded = errors.New("identity: no identity is loaded")
)

// Identity is a loaded identity: an open database, its decrypted signing
// keypair, and the encrypted identity store (C5) bound to its master key.
// All of its fields are sensitive except Name and the public key; Release
// zeroizes the master key and signing seed before dropping the handle.
type Identity struct {
	Name       string
	Folder     string
	Keypair    *keys.Ed25519KeyPair
	UsePadding bool

	db        *sql.DB
	masterKey []byte
	store     *store.Store
}

// Store returns the encrypted identity store (C5) bound to this identity,
// for callers that need add_contact/load_msgs/... directly.
func (id *Identity) Store() *store.Store {
	return id.store
}

// PublicKey returns the identity's 32-byte Ed25519 public key.
func (id *Identity) PublicKey() []byte {
	return id.Keypair.PublicBytes()
}

// Manager holds the process-wide "loaded identity" slot. Build one with
// NewManager or NewManagerWithConfig: the zero value holds no scrypt cost
// parameters, so it cannot wrap or unwrap a password-protected master key.
type Manager struct {
	mu           sync.Mutex
	current      *Identity
	scryptParams primitives.ScryptParams
}

// NewManager returns an empty Manager with nothing loaded, using the
// spec-fixed production scrypt cost parameters.
func NewManager() *Manager {
	return &Manager{scryptParams: primitives.DefaultScryptParams()}
}

// NewManagerWithConfig returns an empty Manager configured from cfg. Outside
// of a "production" environment, cfg.Scrypt's cost parameters override the
// spec-fixed defaults, so local development and test fixtures don't pay the
// full scrypt cost on every create_identity/load_identity call; in
// production the fixed parameters are always used regardless of cfg.Scrypt.
func NewManagerWithConfig(cfg *config.Config) *Manager {
	params := primitives.DefaultScryptParams()
	if cfg != nil && cfg.Scrypt != nil && cfg.Environment != "production" {
		params = primitives.ScryptParams{LogN: cfg.Scrypt.LogN, R: cfg.Scrypt.R, P: cfg.Scrypt.P}
	}
	return &Manager{scryptParams: params}
}

// CreateIdentity initializes a fresh database in folder, generates a
// master key and an Ed25519 signing keypair, and inserts the initial
// metadata row. It fails with store.ErrAlreadyExists if folder's database
// already contains an identity, and with ErrAlreadyLoaded if this Manager
// already holds a loaded identity.
func (m *Manager) CreateIdentity(folder, name string, password []byte, log logger.Logger) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, ErrAlreadyLoaded
	}

	db, err := store.OpenDB(filepath.Join(folder, store.DBFileName))
	if err != nil {
		return nil, err
	}

	masterKey, err := primitives.GenerateMasterKey()
	if err != nil {
		db.Close()
		return nil, err
	}
	defer primitives.Zeroize(masterKey)

	keypair, err := keys.GenerateEd25519KeyPair()
	if err != nil {
		db.Close()
		return nil, err
	}
	seed := keypair.Seed()
	defer primitives.Zeroize(seed)

	wrapped, err := vault.WrapWithParams(masterKey, password, m.scryptParams)
	if err != nil {
		db.Close()
		return nil, err
	}

	const defaultUsePadding = true
	if err := store.CreateIdentityRow(db, masterKey, name, seed, wrapped.Salt, wrapped.MasterKey, defaultUsePadding); err != nil {
		db.Close()
		return nil, err
	}

	storedKey := append([]byte(nil), masterKey...)
	id := &Identity{
		Name:       name,
		Folder:     folder,
		Keypair:    keypair,
		UsePadding: defaultUsePadding,
		db:         db,
		masterKey:  storedKey,
		store:      store.New(db, storedKey, log),
	}
	m.current = id
	return id, nil
}

// LoadIdentity opens folder's database, unwraps the master key under
// password, and decrypts the signing keypair and use_padding flag. A
// malformed stored salt/master-key pair surfaces as ErrDatabaseCorrupted;
// a wrong password surfaces as ErrBadPassword.
func (m *Manager) LoadIdentity(folder string, password []byte, log logger.Logger) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, ErrAlreadyLoaded
	}

	db, err := store.OpenDB(filepath.Join(folder, store.DBFileName))
	if err != nil {
		return nil, err
	}

	name, err := store.GetIdentityName(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read identity name: %w", err)
	}

	salt, masterKeyField, err := store.GetSaltAndMasterKeyField(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read master key field: %w", err)
	}

	masterKey, err := vault.UnwrapWithParams(salt, masterKeyField, password, m.scryptParams)
	if err != nil {
		db.Close()
		return nil, classifyUnwrapError(err)
	}

	seed, err := store.LoadKeypairSeed(db, masterKey)
	if err != nil {
		primitives.Zeroize(masterKey)
		db.Close()
		return nil, fmt.Errorf("decrypt keypair: %w", err)
	}
	keypair, err := keys.NewEd25519KeyPairFromSeed(seed)
	primitives.Zeroize(seed)
	if err != nil {
		primitives.Zeroize(masterKey)
		db.Close()
		return nil, fmt.Errorf("reconstruct keypair: %w", err)
	}

	usePadding, err := store.LoadUsePadding(db, masterKey)
	if err != nil {
		primitives.Zeroize(masterKey)
		db.Close()
		return nil, fmt.Errorf("decrypt use_padding: %w", err)
	}

	id := &Identity{
		Name:       name,
		Folder:     folder,
		Keypair:    keypair,
		UsePadding: usePadding,
		db:         db,
		masterKey:  masterKey,
		store:      store.New(db, masterKey, log),
	}
	m.current = id
	return id, nil
}

// classifyUnwrapError maps vault.Unwrap's two failure kinds onto the
// identity core's user-facing error taxonomy (§7): InvalidLength means the
// stored fields themselves are broken ("database corrupted"), while
// DecryptionFailed means the password was simply wrong. Any other error is
// returned unchanged.
func classifyUnwrapError(err error) error {
	if errors.Is(err, airacrypto.ErrInvalidLength) {
		return ErrDatabaseCorrupted
	}
	if errors.Is(err, airacrypto.ErrDecryptionFailed) {
		return ErrBadPassword
	}
	return err
}

// IsProtected reports whether folder's identity requires a password to
// unwrap, without loading it. It opens and closes its own connection and
// does not touch the Manager's loaded-identity slot.
func IsProtected(folder string) (bool, error) {
	v, err, _ := isProtectedGroup.Do(folder, func() (any, error) {
		db, err := store.OpenDB(filepath.Join(folder, store.DBFileName))
		if err != nil {
			return false, err
		}
		defer db.Close()
		return store.IsProtected(db)
	})
	return v.(bool), err
}

// GetIdentityName reads folder's identity name without unwrapping the
// master key, so it is available even for a password-protected identity
// before the password is known.
func GetIdentityName(folder string) (string, error) {
	v, err, _ := identityNameGroup.Do(folder, func() (any, error) {
		db, err := store.OpenDB(filepath.Join(folder, store.DBFileName))
		if err != nil {
			return "", err
		}
		defer db.Close()
		return store.GetIdentityName(db)
	})
	return v.(string), err
}

// ChangePassword unwraps folder's master key with oldPassword and re-wraps
// it under newPassword, without touching any contact, message, file, or
// avatar row. It returns (false, nil) specifically when oldPassword is
// wrong, and (false, err) when the stored fields are corrupted. It does
// not require the identity to be loaded in any Manager.
func ChangePassword(folder string, oldPassword, newPassword []byte) (bool, error) {
	return ChangePasswordWithConfig(folder, oldPassword, newPassword, nil)
}

// ChangePasswordWithConfig is ChangePassword with cfg's scrypt cost override
// applied the same way NewManagerWithConfig applies it: ignored entirely in
// a "production" environment, consulted otherwise. A nil cfg behaves like
// ChangePassword.
func ChangePasswordWithConfig(folder string, oldPassword, newPassword []byte, cfg *config.Config) (bool, error) {
	db, err := store.OpenDB(filepath.Join(folder, store.DBFileName))
	if err != nil {
		return false, err
	}
	defer db.Close()

	salt, masterKeyField, err := store.GetSaltAndMasterKeyField(db)
	if err != nil {
		return false, fmt.Errorf("read master key field: %w", err)
	}

	params := primitives.DefaultScryptParams()
	if cfg != nil && cfg.Scrypt != nil && cfg.Environment != "production" {
		params = primitives.ScryptParams{LogN: cfg.Scrypt.LogN, R: cfg.Scrypt.R, P: cfg.Scrypt.P}
	}

	rewrapped, err := vault.ChangePasswordWithParams(salt, masterKeyField, oldPassword, newPassword, params)
	if err != nil {
		if errors.Is(err, airacrypto.ErrInvalidLength) {
			return false, ErrDatabaseCorrupted
		}
		if errors.Is(err, airacrypto.ErrDecryptionFailed) {
			return false, nil
		}
		return false, err
	}

	if err := store.UpdateMasterKeyField(db, rewrapped.Salt, rewrapped.MasterKey); err != nil {
		return false, fmt.Errorf("update master key field: %w", err)
	}
	return true, nil
}

// Release zeroizes the loaded identity's master key and signing seed,
// closes its database handle, and clears the Manager's slot. It is a
// contract, not an optimization: the in-memory bytes that held the master
// key and signing secret must read back as zero afterward.
func (m *Manager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNoneLoaded
	}

	id := m.current
	m.current = nil

	id.Keypair.Zeroize()
	primitives.Zeroize(id.masterKey)

	return id.db.Close()
}

// Loaded returns the currently loaded identity, if any.
func (m *Manager) Loaded() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}
