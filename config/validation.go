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

package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Validate checks cfg for internally inconsistent or out-of-range values.
// It assumes setDefaults has already run, so nil sections are only possible
// if a caller constructed cfg by hand.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Logging != nil {
		if cfg.Logging.Level != "" && !validLogLevels[cfg.Logging.Level] {
			return fmt.Errorf("logging.level: invalid log level %q", cfg.Logging.Level)
		}
		if cfg.Logging.Format != "" && !validLogFormats[cfg.Logging.Format] {
			return fmt.Errorf("logging.format: invalid log format %q", cfg.Logging.Format)
		}
	}

	if cfg.Scrypt != nil {
		if cfg.Scrypt.LogN <= 0 {
			return fmt.Errorf("scrypt.log_n: must be positive, got %d", cfg.Scrypt.LogN)
		}
		if cfg.Scrypt.R <= 0 {
			return fmt.Errorf("scrypt.r: must be positive, got %d", cfg.Scrypt.R)
		}
		if cfg.Scrypt.P <= 0 {
			return fmt.Errorf("scrypt.p: must be positive, got %d", cfg.Scrypt.P)
		}
	}

	return nil
}
