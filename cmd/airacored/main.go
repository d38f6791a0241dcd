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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aira-project/aira-core/config"
	"github.com/aira-project/aira-core/identity"
	"github.com/aira-project/aira-core/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "airacored",
	Short: "AIRA identity core CLI",
	Long: `airacored is an ordinary caller of the AIRA identity core library:
it creates and unlocks local identities, manages contacts, and reads and
writes encrypted-at-rest conversation history. It emits no wire protocol
of its own; every identity operation it performs is available to any other
caller of the identity, store, and vault packages directly.`,
	PersistentPreRunE: loadRootConfig,
}

// manager is the process-wide loaded-identity slot (C6) shared by every
// subcommand that needs to operate on a loaded identity within a single
// invocation of the CLI. It is rebuilt from cfg once the root command's
// --config flag has been parsed.
var manager = identity.NewManager()

// cfg is the process configuration loaded by loadRootConfig. It is never
// nil once the root command has run: loadRootConfig always returns a usable
// Config, falling back to setDefaults' values if no config file is found.
var cfg *config.Config

var configFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML or JSON config file (default: environment-based lookup under ./config)")
}

// loadRootConfig loads cfg from --config (if given) or the environment-based
// default lookup, then rebuilds manager so every subcommand's scrypt cost
// and data directory resolution reflect it.
func loadRootConfig(cmd *cobra.Command, args []string) error {
	var loaded *config.Config
	var err error
	if configFile != "" {
		loaded, err = config.LoadFromFile(configFile)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg = loaded
	manager = identity.NewManagerWithConfig(cfg)
	return nil
}

// newLogger builds the structured logger every subcommand uses, honoring
// cfg.Logging once loadRootConfig has run.
func newLogger() logger.Logger {
	if cfg == nil || cfg.Logging == nil {
		return logger.NewDefaultLogger()
	}
	return logger.NewFromLevelAndFormat(cfg.Logging.Level, cfg.Logging.Format)
}

// resolveFolder joins a relative identity folder argument under cfg.DataDir,
// so "airacored create alice ..." lands identities under the configured data
// directory rather than the process's working directory. Every relative
// argument is joined, including one that starts with "./"; an absolute
// folder argument is always used as-is.
func resolveFolder(folder string) string {
	if cfg == nil || cfg.DataDir == "" || filepath.IsAbs(folder) {
		return folder
	}
	return filepath.Join(cfg.DataDir, folder)
}
