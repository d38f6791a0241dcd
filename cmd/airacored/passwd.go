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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aira-project/aira-core/identity"
	"github.com/aira-project/aira-core/internal/logger"
)

var (
	passwdOld string
	passwdNew string
)

var passwdCmd = &cobra.Command{
	Use:   "passwd <folder>",
	Short: "Change an identity's password",
	Long: `Passwd unwraps folder's master key with --old and re-wraps it under
--new (omit --new to remove password protection, omit --old if the identity
is currently unprotected). Every contact, message, file, and avatar row
stays valid unchanged: only the wrapping of the master key changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runPasswd,
}

func init() {
	rootCmd.AddCommand(passwdCmd)
	passwdCmd.Flags().StringVar(&passwdOld, "old", "", "current password")
	passwdCmd.Flags().StringVar(&passwdNew, "new", "", "new password (empty to remove protection)")
}

func runPasswd(cmd *cobra.Command, args []string) error {
	folder := resolveFolder(args[0])

	log := newLogger()

	ok, err := identity.ChangePasswordWithConfig(folder, []byte(passwdOld), []byte(passwdNew), cfg)
	if err != nil {
		if errors.Is(err, identity.ErrDatabaseCorrupted) {
			airaErr := logger.NewAiraError(logger.ErrCodeDatabaseCorrupted, "identity database is corrupted", err).WithDetails("folder", folder)
			log.Error("password change failed", airaErr.Fields()...)
			return fmt.Errorf("database corrupted")
		}
		return err
	}
	if !ok {
		airaErr := logger.NewAiraError(logger.ErrCodeBadPassword, "old password did not unwrap the master key", nil).WithDetails("folder", folder)
		log.Error("password change failed", airaErr.Fields()...)
		return fmt.Errorf("bad password")
	}

	fmt.Println("password changed")
	return nil
}
