// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mudlark.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ParserConfig: Protocol parser limits
//   - DisplayConfig: Theme, timestamps and wrapping
//   - ReplayConfig: Capture replay chunking and pacing
//   - LogConfig: Log level and format
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (MUDLARK_*)
//   - ~/.mudlark/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	theme := cfg.Display.Theme
//	v, _ := cfg.Get("parser.max_buffer")
package config
