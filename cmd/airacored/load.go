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

package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aira-project/aira-core/handshake"
	"github.com/aira-project/aira-core/identity"
	"github.com/aira-project/aira-core/internal/logger"
)

var loadPassword string

var loadCmd = &cobra.Command{
	Use:   "load <folder>",
	Short: "Load an identity and print its public identity info",
	Long: `Load opens folder's AIRA.db, unwraps the master key under --password
(omit for an unprotected identity), and decrypts the signing keypair. It
prints the identity's name, public key, and fingerprint, then releases it.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadPassword, "password", "", "the identity's password, if protected")
}

func runLoad(cmd *cobra.Command, args []string) error {
	folder := resolveFolder(args[0])

	log := newLogger()
	id, err := manager.LoadIdentity(folder, []byte(loadPassword), log)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrDatabaseCorrupted):
			airaErr := logger.NewAiraError(logger.ErrCodeDatabaseCorrupted, "identity database is corrupted", err).WithDetails("folder", folder)
			log.Error("load failed", airaErr.Fields()...)
			return fmt.Errorf("database corrupted")
		case errors.Is(err, identity.ErrBadPassword):
			airaErr := logger.NewAiraError(logger.ErrCodeBadPassword, "password did not unwrap the master key", err).WithDetails("folder", folder)
			log.Error("load failed", airaErr.Fields()...)
			return fmt.Errorf("bad password")
		default:
			return err
		}
	}
	defer manager.Release()

	log.Info("identity loaded", logger.String("name", id.Name), logger.String("folder", folder))
	fmt.Printf("name: %s\n", id.Name)
	fmt.Printf("public key: %s\n", hex.EncodeToString(id.PublicKey()))
	fmt.Printf("fingerprint: %s\n", handshake.Fingerprint(id.PublicKey()))
	fmt.Printf("use_padding: %v\n", id.UsePadding)
	return nil
}
