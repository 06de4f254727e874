// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI renders m as terminal text using re's color profile. A nil re uses
// lipgloss's default renderer. Runs are styled line by line so lipgloss
// never pads multi-line runs to a common width.
func ANSI(m Message, re *lipgloss.Renderer) string {
	if re == nil {
		re = lipgloss.DefaultRenderer()
	}

	var sb strings.Builder
	sb.Grow(m.Len() + len(m)*16)
	for _, run := range m {
		if !run.Color.IsSet() && !run.Bold {
			sb.WriteString(run.Text)
			continue
		}

		style := re.NewStyle().
			Bold(run.Bold).
			Foreground(run.Color.Lipgloss()).
			TabWidth(lipgloss.NoTabConversion)
		for i, line := range strings.Split(run.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}
	return sb.String()
}
