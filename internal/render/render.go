// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"sync"
	"time"

	"github.com/jeranaias/mudlark/internal/model"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// Tag names with renderer-specific styling.
const (
	TagPreset  = "preset"
	TagBold    = "b"
	TagLink    = "a"
	TagCommand = "d"
)

// TimestampFormat is the layout of the timestamp prefix, without brackets.
const TimestampFormat = "15:04:05"

// TimestampSettings controls the timestamp prefix.
type TimestampSettings struct {
	Enabled bool

	// Location converts the timestamp before formatting (default: the
	// timestamp's own location).
	Location *time.Location
}

// Options holds per-call rendering options.
type Options struct {
	// Timestamp is the instant shown in the prefix. It is never read from
	// the wall clock here.
	Timestamp  time.Time
	Timestamps TimestampSettings
}

// WithTimestamp returns options that prefix output with at.
func WithTimestamp(at time.Time) Options {
	return Options{Timestamp: at, Timestamps: TimestampSettings{Enabled: true}}
}

// runPool recycles the scratch slices used while rendering.
var runPool = sync.Pool{
	New: func() any {
		runs := make([]StyledRun, 0, 32)
		return &runs
	},
}

// =============================================================================
// RENDERING
// =============================================================================

// Render renders one tag tree. A nil tag renders as an empty Message and a
// nil theme renders without colors.
func Render(tag *model.GameTag, th *styles.Theme, opts Options) Message {
	if tag == nil {
		return nil
	}
	return RenderBatch([]*model.GameTag{tag}, th, opts)
}

// RenderBatch renders sibling trees as one message under a single
// timestamp prefix.
func RenderBatch(tags []*model.GameTag, th *styles.Theme, opts Options) Message {
	buf := runPool.Get().(*[]StyledRun)
	defer func() {
		clear(*buf)
		*buf = (*buf)[:0]
		runPool.Put(buf)
	}()

	r := renderer{runs: (*buf)[:0], th: th}
	r.textColor, _ = th.SemanticColor(styles.SemanticText)

	for _, tag := range tags {
		r.tag(tag, false)
	}
	*buf = r.runs

	body := trimTrailingNewlines(coalesce(r.runs))
	if len(body) == 0 {
		return nil
	}

	msg := make(Message, 0, len(body)+1)
	if opts.Timestamps.Enabled {
		msg = append(msg, timestampRun(opts, th))
	}
	return append(msg, body...)
}

func timestampRun(opts Options, th *styles.Theme) StyledRun {
	at := opts.Timestamp
	if loc := opts.Timestamps.Location; loc != nil {
		at = at.In(loc)
	}
	c, _ := th.SemanticColor(styles.SemanticTimestamp)
	return StyledRun{Text: "[" + at.Format(TimestampFormat) + "] ", Color: c}
}

// renderer holds the state of a single call.
type renderer struct {
	runs      []StyledRun
	th        *styles.Theme
	textColor styles.Color
}

func (r *renderer) tag(t *model.GameTag, bold bool) {
	if t == nil {
		return
	}

	switch t.Name {
	case model.TextTagName:
		r.emit(t.Text, bold)

	case TagPreset:
		start := len(r.runs)
		r.content(t, bold)
		if c, ok := r.th.PresetColor(t.Attr("id")); ok {
			r.paint(start, c)
		}

	case TagBold:
		r.content(t, true)

	case TagLink:
		r.semantic(t, bold, styles.SemanticLink)

	case TagCommand:
		r.semantic(t, bold, styles.SemanticCommand)

	default:
		r.content(t, bold)
	}
}

// content renders direct text followed by the children.
func (r *renderer) content(t *model.GameTag, bold bool) {
	r.emit(t.Text, bold)
	for _, child := range t.Children {
		r.tag(child, bold)
	}
}

func (r *renderer) semantic(t *model.GameTag, bold bool, name string) {
	start := len(r.runs)
	r.content(t, bold)
	if c, ok := r.th.SemanticColor(name); ok {
		r.paint(start, c)
	}
}

func (r *renderer) emit(text string, bold bool) {
	if text == "" {
		return
	}
	r.runs = append(r.runs, StyledRun{Text: text, Color: r.textColor, Bold: bold})
}

// paint overwrites the color of every run produced since start.
func (r *renderer) paint(start int, c styles.Color) {
	for i := start; i < len(r.runs); i++ {
		r.runs[i].Color = c
	}
}
