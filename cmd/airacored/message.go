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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aira-project/aira-core/store"
)

var (
	sendPassword string
	sendContact  string
	sendText     string

	messagesPassword string
	messagesContact  string
	messagesOffset   uint64
	messagesCount    uint64
)

var sendCmd = &cobra.Command{
	Use:   "send <folder>",
	Short: "Store an outgoing message for a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runSend,
}

var messagesCmd = &cobra.Command{
	Use:   "messages <folder>",
	Short: "Print a window of a contact's stored messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runMessages,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(messagesCmd)

	sendCmd.Flags().StringVar(&sendPassword, "password", "", "the identity's password, if protected")
	sendCmd.Flags().StringVar(&sendContact, "contact", "", "contact UUID")
	sendCmd.Flags().StringVar(&sendText, "text", "", "message body")
	sendCmd.MarkFlagRequired("contact")
	sendCmd.MarkFlagRequired("text")

	messagesCmd.Flags().StringVar(&messagesPassword, "password", "", "the identity's password, if protected")
	messagesCmd.Flags().StringVar(&messagesContact, "contact", "", "contact UUID")
	messagesCmd.Flags().Uint64Var(&messagesOffset, "offset", 0, "offset from the newest stored message")
	messagesCmd.Flags().Uint64Var(&messagesCount, "count", 10, "maximum number of messages to return")
	messagesCmd.MarkFlagRequired("contact")
}

func runSend(cmd *cobra.Command, args []string) error {
	folder := resolveFolder(args[0])

	contactUUID, err := uuid.Parse(sendContact)
	if err != nil {
		return fmt.Errorf("parse contact uuid: %w", err)
	}

	log := newLogger()
	id, err := manager.LoadIdentity(folder, []byte(sendPassword), log)
	if err != nil {
		return err
	}
	defer manager.Release()

	msg := store.Message{
		Outgoing:  true,
		Timestamp: uint64(time.Now().Unix()),
		Data:      []byte(sendText),
	}
	if err := id.Store().StoreMessage(contactUUID, msg); err != nil {
		return fmt.Errorf("store message: %w", err)
	}

	fmt.Println("message stored")
	return nil
}

func runMessages(cmd *cobra.Command, args []string) error {
	folder := resolveFolder(args[0])

	contactUUID, err := uuid.Parse(messagesContact)
	if err != nil {
		return fmt.Errorf("parse contact uuid: %w", err)
	}

	log := newLogger()
	id, err := manager.LoadIdentity(folder, []byte(messagesPassword), log)
	if err != nil {
		return err
	}
	defer manager.Release()

	messages, skipped, err := id.Store().LoadMessages(contactUUID, messagesOffset, messagesCount)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	if skipped > 0 {
		fmt.Printf("(%d corrupted message rows skipped)\n", skipped)
	}
	for _, m := range messages {
		direction := "in "
		if m.Outgoing {
			direction = "out"
		}
		fmt.Printf("[%s] %d %s\n", direction, m.Timestamp, string(m.Data))
	}
	return nil
}
