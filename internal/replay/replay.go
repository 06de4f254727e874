// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultChunkSize is the read size when Config.ChunkSize is unset.
const DefaultChunkSize = 512

// Target consumes chunks. *session.Session implements it.
type Target interface {
	Feed(chunk string, at time.Time) int
	Flush(at time.Time) int
}

// Config holds configuration for a Feeder.
type Config struct {
	// ChunkSize is the number of bytes per chunk (default: 512)
	ChunkSize int

	// ChunksPerSecond paces the replay; 0 feeds as fast as possible
	ChunksPerSecond float64

	// Logger receives progress events (default: log.Default())
	Logger *log.Logger
}

// Stats summarizes a replay.
type Stats struct {
	Chunks   int
	Bytes    int
	Messages int
	Elapsed  time.Duration
}

// Error reports a replay that stopped early, with how far it got.
type Error struct {
	Stats Stats
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("replay stopped after %d bytes: %v", e.Stats.Bytes, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// =============================================================================
// FEEDER
// =============================================================================

// Feeder replays captured logs.
type Feeder struct {
	chunkSize int
	limiter   *rate.Limiter
	logger    *log.Logger
	now       func() time.Time
}

// New creates a feeder. Zero fields in cfg take their defaults.
func New(cfg Config) *Feeder {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	f := &Feeder{
		chunkSize: cfg.ChunkSize,
		logger:    logger.WithPrefix("replay"),
		now:       time.Now,
	}
	if cfg.ChunksPerSecond > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.ChunksPerSecond), 1)
	}
	return f
}

// ChunkSize returns the configured chunk size.
func (f *Feeder) ChunkSize() int {
	return f.chunkSize
}

// Paced reports whether chunks are rate limited.
func (f *Feeder) Paced() bool {
	return f.limiter != nil
}

// Run feeds r to t chunk by chunk until EOF, then flushes t. A cancelled
// context or read error stops the replay without flushing and is returned
// as *Error.
func (f *Feeder) Run(ctx context.Context, r io.Reader, t Target) (Stats, error) {
	var stats Stats
	start := f.now()
	buf := make([]byte, f.chunkSize)

	fail := func(err error) (Stats, error) {
		stats.Elapsed = f.now().Sub(start)
		f.logger.Warn("replay stopped", "bytes", stats.Bytes, "err", err)
		return stats, &Error{Stats: stats, Err: err}
	}

	for {
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		default:
		}

		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if f.limiter != nil {
				if werr := f.limiter.Wait(ctx); werr != nil {
					return fail(werr)
				}
			}
			stats.Chunks++
			stats.Bytes += n
			stats.Messages += t.Feed(string(buf[:n]), f.now())
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			stats.Messages += t.Flush(f.now())
			stats.Elapsed = f.now().Sub(start)
			f.logger.Debug("replay finished",
				"chunks", stats.Chunks,
				"bytes", stats.Bytes,
				"messages", stats.Messages,
				"elapsed", stats.Elapsed)
			return stats, nil
		default:
			return fail(err)
		}
	}
}
