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

// Package config loads the process configuration for the AIRA identity
// core: where identity folders live, and how the process logs.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration for the identity core.
type Config struct {
	Environment string         `yaml:"environment" json:"environment"`
	DataDir     string         `yaml:"data_dir" json:"data_dir"`
	Logging     *LoggingConfig `yaml:"logging" json:"logging"`
	Scrypt      *ScryptConfig  `yaml:"scrypt" json:"scrypt"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ScryptConfig overrides the password KDF cost parameters. Production
// deployments MUST use the spec-fixed values; this only exists so tests
// don't have to pay the full scrypt cost on every run.
type ScryptConfig struct {
	LogN int `yaml:"log_n" json:"log_n"`
	R    int `yaml:"r" json:"r"`
	P    int `yaml:"p" json:"p"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}

	// Try to parse as YAML first
	if err := yaml.Unmarshal(data, cfg); err != nil {
		// Try JSON if YAML fails
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}

	setDefaults(cfg)

	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing the format by extension.
func SaveToFile(cfg *Config, path string) error {
	var data []byte
	var err error

	if len(path) >= 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setDefaults fills in zero-valued fields with their production defaults.
func setDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.DataDir == "" {
		cfg.DataDir = ".aira"
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Scrypt == nil {
		cfg.Scrypt = &ScryptConfig{}
	}
	if cfg.Scrypt.LogN == 0 {
		cfg.Scrypt.LogN = 16
	}
	if cfg.Scrypt.R == 0 {
		cfg.Scrypt.R = 8
	}
	if cfg.Scrypt.P == 0 {
		cfg.Scrypt.P = 1
	}
}
