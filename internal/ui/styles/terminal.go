// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Lipgloss converts c for terminal rendering. The zero Color becomes NoColor.
func (c Color) Lipgloss() lipgloss.TerminalColor {
	if !c.IsSet() {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(string(c))
}

// ProfileFor picks the color profile for terminal output. noColor forces
// plain ASCII; otherwise the profile comes from the environment (TERM,
// COLORTERM, NO_COLOR, CLICOLOR_FORCE).
func ProfileFor(noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// NewTerminalRenderer returns a lipgloss renderer writing to w with profile.
func NewTerminalRenderer(w io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return r
}
