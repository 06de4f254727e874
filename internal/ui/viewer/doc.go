// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewer provides a Bubble Tea program that shows rendered game
// output, one tab per stream.
//
// The model receives output as DeliverMsg and ClearMsg values. ProgramSink
// turns those into a session.Sink, so a session can feed a running program
// from another goroutine:
//
//	m := viewer.New(viewer.Config{Theme: th})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	sess := session.New(cfg, viewer.NewProgramSink(p))
//	go func() {
//	    stats, err := feeder.Run(ctx, r, sess)
//	    p.Send(viewer.DoneMsg{Messages: stats.Messages, Err: err})
//	}()
//	_, err := p.Run()
//
// # Keys
//
//   - tab / shift+tab: next / previous stream
//   - up, down, pgup, pgdown: scroll
//   - g / G: top / bottom (G resumes following new output)
//   - q, ctrl+c: quit
package viewer
