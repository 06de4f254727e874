// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package replay feeds a captured protocol log into a session as if it
// were arriving from the game server.
//
// The log is read in fixed-size chunks, which deliberately land in the
// middle of tags, attribute values and entities. Pacing with
// ChunksPerSecond uses a token bucket from golang.org/x/time/rate, so a
// replay can be watched at roughly server speed.
//
// # Usage
//
//	f := replay.New(replay.Config{ChunkSize: 256, ChunksPerSecond: 50})
//	stats, err := f.Run(ctx, file, sess)
package replay
