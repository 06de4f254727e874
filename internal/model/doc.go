// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the parsed representation of the game protocol.
//
// # Key Types
//
//   - GameTag: one parsed element (name, text, attributes, children, stream)
//   - TagState: open while the parser is still building the element, closed once emitted
//
// Text between elements is represented by synthetic leaf tags named
// TextTagName (":text").
//
// # Usage
//
//	tag := model.NewTag("preset", map[string]string{"id": "speech"})
//	tag.AppendText("You say, \"Hello.\"")
//	tag.Close()
//
//	if tag.Attr("id") == "speech" {
//	    fmt.Println(tag.PlainText())
//	}
//
// Tags are mutated only while they sit on the parser's open stack; once
// closed and emitted they are owned by the caller and treated as immutable.
package model
