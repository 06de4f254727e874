// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles resolves logical style names from the game protocol to colors.

# Theme Model (theme.go)

A Theme maps logical names to colors through two levels of indirection:

	preset id   ─┐
	category id ─┼─> palette key ─> Color
	semantic    ─┘

Presets come from the server (`<preset id="speech">`), categories label
stream windows, and semantic names cover client-side roles:

	SemanticText      - default text color
	SemanticLink      - `<a>` anchors
	SemanticCommand   - `<d>` clickable commands
	SemanticTimestamp - "[HH:MM:SS] " prefixes

A missing key at either level resolves to no color; it is never an error.
Themes are immutable once built and are shared between goroutines.

# Colors (colors.go)

Color is a normalized "#RRGGBB" string. ParseColor accepts "#RGB", "#RRGGBB"
and the same without the leading '#'. The zero Color means "no color".

# Theme Files (file.go, registry.go)

Themes can be stored as TOML:

	name = "dusk"

	[palette]
	fg = "#D0D0D0"
	gold = "#E5C07B"

	[presets]
	speech = "gold"

	[semantic]
	text = "fg"

A Registry holds the built-in themes plus every *.toml file in a directory,
and can watch that directory to hot-reload edited themes.

# Terminal Output (terminal.go)

Colors convert to lipgloss colors at the display boundary; the color profile
comes from termenv so output degrades on 256/16-color terminals.
*/
package styles
