// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// LEXICAL HELPERS
// =============================================================================

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == ':' || c >= utf8.RuneSelf
}

// isConstructStart reports whether '<' followed by c begins markup.
// Anything else makes the '<' literal text.
func isConstructStart(c byte) bool {
	return c == '/' || c == '!' || c == '?' || isNameStart(c)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// textEnd returns the index of the '<' that starts the next construct.
// ok is false when the text run may still be growing.
func textEnd(s string) (int, bool) {
	from := 0
	for {
		i := strings.IndexByte(s[from:], '<')
		if i < 0 {
			return 0, false
		}
		i += from
		if i+1 >= len(s) {
			return 0, false
		}
		if isConstructStart(s[i+1]) {
			return i, true
		}
		from = i + 1
	}
}

// tagEnd returns the index of the '>' closing the tag that starts at s[0],
// skipping '>' inside quoted attribute values. -1 means incomplete.
func tagEnd(s string) int {
	var quote byte
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}

// =============================================================================
// ELEMENT HEADERS
// =============================================================================

// header is the parsed content of an opening or self-closing construct.
type header struct {
	name      string
	attrs     map[string]string
	selfClose bool
}

// parseHeader parses the text between '<' and '>'.
func parseHeader(inner string) header {
	var h header

	trimmed := strings.TrimRight(inner, " \t\r\n")
	if strings.HasSuffix(trimmed, "/") {
		h.selfClose = true
		inner = trimmed[:len(trimmed)-1]
	}

	i := 0
	for i < len(inner) && !isSpace(inner[i]) && inner[i] != '/' {
		i++
	}
	h.name = inner[:i]

	for i < len(inner) {
		for i < len(inner) && (isSpace(inner[i]) || inner[i] == '/') {
			i++
		}
		if i >= len(inner) {
			break
		}

		start := i
		for i < len(inner) && !isSpace(inner[i]) && inner[i] != '=' && inner[i] != '/' {
			i++
		}
		key := inner[start:i]

		for i < len(inner) && isSpace(inner[i]) {
			i++
		}
		var val string
		if i < len(inner) && inner[i] == '=' {
			i++
			for i < len(inner) && isSpace(inner[i]) {
				i++
			}
			val, i = attrValue(inner, i)
		}

		if key == "" {
			// stray '=' or quote; skip one byte to guarantee progress
			if i == start {
				i++
			}
			continue
		}
		if h.attrs == nil {
			h.attrs = make(map[string]string, 4)
		}
		h.attrs[key] = decodeEntities(val)
	}
	return h
}

// attrValue reads a quoted or bare value starting at s[i].
func attrValue(s string, i int) (string, int) {
	if i >= len(s) {
		return "", i
	}
	if q := s[i]; q == '"' || q == '\'' {
		end := strings.IndexByte(s[i+1:], q)
		if end < 0 {
			return s[i+1:], len(s)
		}
		return s[i+1 : i+1+end], i + end + 2
	}
	start := i
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[start:i], i
}

// =============================================================================
// ENTITIES
// =============================================================================

var namedEntities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": "\"",
}

// maxEntityLen bounds the search for ';' so a stray '&' costs little.
const maxEntityLen = 10

// decodeEntities replaces the five XML entities and numeric character
// references. Unknown or malformed references are kept literally.
func decodeEntities(s string) string {
	amp := strings.IndexByte(s, '&')
	if amp < 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	sb.WriteString(s[:amp])

	for i := amp; i < len(s); {
		if s[i] != '&' {
			next := strings.IndexByte(s[i:], '&')
			if next < 0 {
				sb.WriteString(s[i:])
				break
			}
			sb.WriteString(s[i : i+next])
			i += next
			continue
		}

		limit := min(len(s), i+maxEntityLen+2)
		semi := strings.IndexByte(s[i+1:limit], ';')
		if semi < 0 {
			sb.WriteByte('&')
			i++
			continue
		}
		name := s[i+1 : i+1+semi]
		if repl, ok := resolveEntity(name); ok {
			sb.WriteString(repl)
			i += semi + 2
			continue
		}
		sb.WriteByte('&')
		i++
	}
	return sb.String()
}

func resolveEntity(name string) (string, bool) {
	if repl, ok := namedEntities[name]; ok {
		return repl, true
	}
	if len(name) < 2 || name[0] != '#' {
		return "", false
	}

	var (
		n   uint64
		err error
	)
	if name[1] == 'x' || name[1] == 'X' {
		n, err = strconv.ParseUint(name[2:], 16, 32)
	} else {
		n, err = strconv.ParseUint(name[1:], 10, 32)
	}
	if err != nil || n == 0 || !utf8.ValidRune(rune(n)) {
		return "", false
	}
	return string(rune(n)), true
}
