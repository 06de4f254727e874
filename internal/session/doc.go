// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs one connection's display pipeline.
//
// A Session owns the connection's parser, the active theme, and a Sink.
// Each chunk handed to Feed is parsed, the completed tags are grouped into
// contiguous runs that share a stream, and each group is rendered as one
// message and delivered to the sink.
//
// # Key Types
//
//   - Session: parser + theme + sink for one connection
//   - Sink: receives rendered messages and stream clears
//   - SinkFunc: adapts a plain function to Sink
//
// # Usage
//
//	sess := session.New(session.DefaultConfig(), session.SinkFunc(
//	    func(stream string, msg render.Message) {
//	        fmt.Println(stream, msg.PlainText())
//	    }))
//	for chunk := range chunks {
//	    sess.Feed(chunk, time.Now())
//	}
//	sess.Flush(time.Now())
//
// # Themes
//
// The theme is held in an atomic pointer. SetTheme, or a registry
// subscription through ThemeReloaded, swaps it without blocking Feed; a
// message is always rendered entirely with one theme.
package session
