// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package parser turns the game server's chunked, quasi-XML stream into
// completed GameTag trees.
//
// Chunks may split the stream anywhere: inside a tag name, an attribute
// value, or an entity. Parse buffers whatever it cannot finish and returns
// only the top-level tags completed so far, so feeding a document in one
// chunk or in many yields the same tags.
//
// # Streams
//
// The control tags pushStream, popStream and clearStream never appear in
// the output. pushStream id="X" makes X the current stream (replacing any
// previous one); popStream and clearStream clear it. Top-level tags emitted
// while a stream is active carry StreamID = X.
//
// # Malformed Input
//
// Parse never panics. Incomplete input waits for more data. A closing tag
// for an element that is open deeper in the stack auto-closes everything
// above it; a closing tag matching nothing is dropped. If unfinished input
// plus still-open elements exceed Config.MaxBuffer, all of it is discarded
// and parsing restarts clean.
//
// # Usage
//
//	p := parser.New(parser.DefaultConfig())
//	for chunk := range chunks {
//	    for _, tag := range p.Parse(chunk) {
//	        handle(tag.StreamID, tag)
//	    }
//	}
//
// A Parser serializes its calls internally, but chunks must still be fed
// in arrival order: one parser per connection, one feeding goroutine.
package parser
