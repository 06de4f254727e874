// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// StyledRun is a span of text sharing one style.
type StyledRun struct {
	Text  string
	Color styles.Color // NoColor when the theme has none
	Bold  bool
}

func (r StyledRun) sameStyle(o StyledRun) bool {
	return r.Color == o.Color && r.Bold == o.Bold
}

// Message is the rendered form of one tag or one batch of tags.
type Message []StyledRun

// PlainText returns the text of all runs without styling.
func (m Message) PlainText() string {
	switch len(m) {
	case 0:
		return ""
	case 1:
		return m[0].Text
	}
	var sb strings.Builder
	for _, r := range m {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the total text length in bytes.
func (m Message) Len() int {
	n := 0
	for _, r := range m {
		n += len(r.Text)
	}
	return n
}

// Lines splits m at newlines. The newline characters are not kept, and a
// trailing newline does not produce an empty final line.
func (m Message) Lines() []Message {
	var (
		lines []Message
		cur   Message
	)
	for _, r := range m {
		text := r.Text
		for {
			nl := strings.IndexByte(text, '\n')
			if nl < 0 {
				break
			}
			if nl > 0 {
				cur = append(cur, StyledRun{Text: text[:nl], Color: r.Color, Bold: r.Bold})
			}
			lines = append(lines, cur)
			cur = nil
			text = text[nl+1:]
		}
		if text != "" {
			cur = append(cur, StyledRun{Text: text, Color: r.Color, Bold: r.Bold})
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// =============================================================================
// POST-PROCESSING
// =============================================================================

// coalesce merges adjacent runs with the same style and drops empty runs,
// in place.
func coalesce(runs []StyledRun) []StyledRun {
	out := runs[:0]
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].sameStyle(r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// trimTrailingNewlines removes a trailing run of two or more '\n' from the
// end of the combined text. A single trailing newline is kept.
func trimTrailingNewlines(runs []StyledRun) []StyledRun {
	count := 0
	for i := len(runs) - 1; i >= 0; i-- {
		t := runs[i].Text
		n := len(t) - len(strings.TrimRight(t, "\n"))
		count += n
		if n < len(t) {
			break
		}
	}
	if count < 2 {
		return runs
	}

	for count > 0 && len(runs) > 0 {
		last := &runs[len(runs)-1]
		n := min(count, len(last.Text))
		last.Text = last.Text[:len(last.Text)-n]
		count -= n
		if last.Text == "" {
			runs = runs[:len(runs)-1]
		}
	}
	return runs
}
