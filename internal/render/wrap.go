// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"github.com/mattn/go-runewidth"
)

// cell is one rune of a message with the index of the run it came from.
type cell struct {
	r   rune
	run int
}

// Wrap breaks lines of m so none is wider than width terminal columns,
// measured with go-runewidth. Lines break at the last space when there is
// one (the space becomes the newline), otherwise mid-word. Styles are kept.
// A width <= 0 returns m unchanged.
func Wrap(m Message, width int) Message {
	if width <= 0 || len(m) == 0 {
		return m
	}

	cells := make([]cell, 0, m.Len())
	for i, run := range m {
		for _, r := range run.Text {
			cells = append(cells, cell{r: r, run: i})
		}
	}

	out := make([]cell, 0, len(cells)+len(cells)/width+1)
	col := 0
	lineStart := 0  // index in out of the current line's first cell
	lastSpace := -1 // index in out of the current line's last space
	for _, c := range cells {
		if c.r == '\n' {
			out = append(out, c)
			col, lineStart, lastSpace = 0, len(out), -1
			continue
		}

		w := runewidth.RuneWidth(c.r)
		if col+w > width && col > 0 {
			if c.r == ' ' {
				out = append(out, cell{r: '\n', run: c.run})
				col, lineStart, lastSpace = 0, len(out), -1
				continue
			}
			if lastSpace > lineStart {
				out[lastSpace].r = '\n'
				lineStart = lastSpace + 1
				col = 0
				for _, rest := range out[lineStart:] {
					col += runewidth.RuneWidth(rest.r)
				}
			}
			if col+w > width && col > 0 {
				out = append(out, cell{r: '\n', run: c.run})
				lineStart, col = len(out), 0
			}
			lastSpace = -1
		}

		if c.r == ' ' {
			lastSpace = len(out)
		}
		out = append(out, c)
		col += w
	}

	return fromCells(m, out)
}

// fromCells rebuilds runs from cells, taking styles from m.
func fromCells(m Message, cells []cell) Message {
	var (
		msg  Message
		text []rune
		cur  = -1
	)
	flush := func() {
		if len(text) > 0 {
			msg = append(msg, StyledRun{Text: string(text), Color: m[cur].Color, Bold: m[cur].Bold})
			text = text[:0]
		}
	}
	for _, c := range cells {
		if c.run != cur {
			flush()
			cur = c.run
		}
		text = append(text, c.r)
	}
	flush()
	return coalesce(msg)
}
