// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns parsed GameTag trees into styled text runs.
//
// A Message is an ordered list of StyledRun values, each a span of text
// with one color and a bold flag. Terminal front ends convert it with ANSI,
// other surfaces can map runs to their own rich-text type.
//
// # Styling Rules
//
//   - :text      inherited bold, the theme's "text" color
//   - preset     children, then presets[id] painted over the whole range
//   - b          everything inside is bold, at any depth
//   - a          content, then the "link" color over the whole range
//   - d          content, then the "command" color over the whole range
//   - (other)    direct text then children, no extra styling
//
// Colors are painted after the children have rendered, so an enclosing
// preset or link color replaces whatever a nested tag set.
//
// # Concurrency
//
// Render and RenderBatch keep no state between calls and may run
// concurrently against the same Theme. The caller supplies the timestamp,
// so output depends only on the arguments.
package render
