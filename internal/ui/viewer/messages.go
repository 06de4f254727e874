// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mudlark/internal/render"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// DeliverMsg carries one rendered message for a stream.
type DeliverMsg struct {
	Stream  string
	Message render.Message
}

// ClearMsg empties a stream's tab.
type ClearMsg struct {
	Stream string
}

// ThemeMsg replaces the theme used for the viewer's own chrome.
type ThemeMsg struct {
	Theme *styles.Theme
}

// DoneMsg reports that the input ended.
type DoneMsg struct {
	Messages int
	Err      error
}

// =============================================================================
// PROGRAM SINK
// =============================================================================

// sender is the part of *tea.Program the sink needs.
type sender interface {
	Send(msg tea.Msg)
}

// ProgramSink forwards session output to a running program. It implements
// session.Sink and is safe to call from any goroutine.
type ProgramSink struct {
	p sender
}

// NewProgramSink returns a sink that sends to p.
func NewProgramSink(p *tea.Program) *ProgramSink {
	return &ProgramSink{p: p}
}

// Deliver sends a DeliverMsg.
func (s *ProgramSink) Deliver(stream string, msg render.Message) {
	s.p.Send(DeliverMsg{Stream: stream, Message: msg})
}

// Clear sends a ClearMsg.
func (s *ProgramSink) Clear(stream string) {
	s.p.Send(ClearMsg{Stream: stream})
}

// ThemeUpdater returns a styles.Registry subscriber that forwards theme
// reloads to the program.
func (s *ProgramSink) ThemeUpdater() func(*styles.Theme) {
	return func(th *styles.Theme) {
		s.p.Send(ThemeMsg{Theme: th})
	}
}
