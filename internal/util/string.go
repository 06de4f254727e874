// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strings"

// TruncateRunes truncates a string to a maximum number of runes (characters).
// This is safe for UTF-8 strings as it counts characters, not bytes.
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

var previewReplacer = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

// Preview returns s on a single line with control whitespace escaped,
// truncated to maxRunes. Used when logging raw protocol input.
func Preview(s string, maxRunes int) string {
	// Truncate first so huge buffers are not copied by the replacer.
	if len(s) > maxRunes*4 {
		s = s[:maxRunes*4]
	}
	return TruncateRunes(previewReplacer.Replace(s), maxRunes)
}
