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

	"github.com/spf13/cobra"
)

var (
	contactPassword string
	contactName     string
	contactPubKey   string
)

var addContactCmd = &cobra.Command{
	Use:   "add-contact <folder>",
	Short: "Add a contact to an identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddContact,
}

var listContactsCmd = &cobra.Command{
	Use:   "list-contacts <folder>",
	Short: "List an identity's contacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runListContacts,
}

func init() {
	rootCmd.AddCommand(addContactCmd)
	rootCmd.AddCommand(listContactsCmd)

	addContactCmd.Flags().StringVar(&contactPassword, "password", "", "the identity's password, if protected")
	addContactCmd.Flags().StringVar(&contactName, "name", "", "contact's display name")
	addContactCmd.Flags().StringVar(&contactPubKey, "pubkey", "", "contact's 32-byte Ed25519 public key, hex-encoded")
	addContactCmd.MarkFlagRequired("name")
	addContactCmd.MarkFlagRequired("pubkey")

	listContactsCmd.Flags().StringVar(&contactPassword, "password", "", "the identity's password, if protected")
}

func runAddContact(cmd *cobra.Command, args []string) error {
	folder := resolveFolder(args[0])

	pubkey, err := hex.DecodeString(contactPubKey)
	if err != nil {
		return fmt.Errorf("decode pubkey: %w", err)
	}

	log := newLogger()
	id, err := manager.LoadIdentity(folder, []byte(contactPassword), log)
	if err != nil {
		return err
	}
	defer manager.Release()

	contact, err := id.Store().AddContact(contactName, nil, pubkey)
	if err != nil {
		return fmt.Errorf("add contact: %w", err)
	}

	fmt.Printf("added contact %s (%s)\n", contact.Name, contact.UUID)
	return nil
}

func runListContacts(cmd *cobra.Command, args []string) error {
	folder := resolveFolder(args[0])

	log := newLogger()
	id, err := manager.LoadIdentity(folder, []byte(contactPassword), log)
	if err != nil {
		return err
	}
	defer manager.Release()

	contacts, skipped, err := id.Store().LoadContacts()
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}
	if skipped > 0 {
		fmt.Printf("(%d corrupted contact rows skipped)\n", skipped)
	}
	for _, c := range contacts {
		fmt.Printf("%s  %-20s verified=%v seen=%v\n", c.UUID, c.Name, c.Verified, c.Seen)
	}
	return nil
}
