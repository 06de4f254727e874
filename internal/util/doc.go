// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across mudlark packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - Preview: single-line, truncated rendering of raw protocol text for logs
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Log a bounded preview of a dropped buffer
//	logger.Warn("buffer overflow", "preview", util.Preview(buf, 60))
//
//	// Persist a config or theme file without leaving partial writes
//	err := util.AtomicWriteFile(path, data, 0600)
package util
