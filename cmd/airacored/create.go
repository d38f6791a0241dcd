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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aira-project/aira-core/internal/logger"
)

var createPassword string

var createCmd = &cobra.Command{
	Use:   "create <folder> <name>",
	Short: "Create a new identity in an empty folder",
	Long: `Create initializes a fresh AIRA.db in folder and inserts the initial
metadata row: name, a freshly generated master key, and a freshly generated
Ed25519 signing keypair. It fails if folder already contains an identity.`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createPassword, "password", "", "protect the identity with a password (unprotected if omitted)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	folder, name := resolveFolder(args[0]), args[1]

	if err := os.MkdirAll(folder, 0700); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	log := newLogger()
	id, err := manager.CreateIdentity(folder, name, []byte(createPassword), log)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	defer manager.Release()

	log.Info("identity created", logger.String("name", id.Name), logger.String("folder", folder))
	fmt.Printf("created identity %q in %s\npublic key: %s\n", id.Name, folder, hex.EncodeToString(id.PublicKey()))
	return nil
}
