// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for mudlark.
//
// # Commands
//
//   - replay: render a captured session log to the terminal
//   - view: replay a capture into the scrollback viewer
//   - themes: list, show and export color themes
//   - config: show and edit ~/.mudlark/config.toml
//   - version, help
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil { ... }
//	err = cli.Run(ctx, cmd, args, cli.StdStreams())
package cli
