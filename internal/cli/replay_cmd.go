// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// replay_cmd.go - Replay command implementation for mudlark.
//
// Command: replay <file|->
// Short:   Render a captured session log to the terminal
// Aliases: r
//
// Main-window output is printed as it arrives. Output for other streams
// (thoughts, death, logons, ...) is printed on its own lines, each prefixed
// with "[stream] ".
//
// Examples:
//   mudlark replay session.log
//   mudlark replay session.log --theme light --timestamps
//   mudlark replay - --chunk 1 --no-color < session.log
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/mudlark/internal/render"
	"github.com/jeranaias/mudlark/internal/replay"
	"github.com/jeranaias/mudlark/internal/session"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// HandleReplay handles the "replay" command.
func HandleReplay(ctx context.Context, args Args, s Streams) error {
	p, err := newPipeline(args, s.Err)
	if err != nil {
		return err
	}

	re := newRenderer(s.Out, p.cfg.Display.NoColor)

	scfg, err := p.sessionConfig(terminalWidth(s.Out))
	if err != nil {
		return err
	}
	sink := newPrintSink(s.Out, re, p.logger)
	sess := session.New(scfg, sink)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.watchThemes(ctx, sess.ThemeReloaded)

	in, err := openInput(args.Input, s.In)
	if err != nil {
		return NewCommandError("replay", "open", err)
	}
	defer in.Close()

	stats, err := p.feeder().Run(ctx, in, sess)
	sink.finish()
	if err != nil {
		return NewCommandError("replay", "read", err)
	}

	p.logger.Info("replay finished",
		"chunks", stats.Chunks, "bytes", stats.Bytes,
		"messages", stats.Messages, "elapsed", stats.Elapsed)
	if args.Options != nil && args.Options.BoolFlag("stats") {
		printStats(s.Err, stats, sess.GetStatus())
	}
	return nil
}

// printStats writes a replay summary.
func printStats(w io.Writer, stats replay.Stats, st session.Status) {
	fmt.Fprintf(w, "\nReplay\n")
	fmt.Fprintf(w, "  Bytes:       %d in %d chunks\n", stats.Bytes, stats.Chunks)
	fmt.Fprintf(w, "  Elapsed:     %s\n", session.FormatDuration(stats.Elapsed))
	fmt.Fprintf(w, "  Messages:    %d\n", st.Messages)
	fmt.Fprintf(w, "  Clears:      %d\n", st.Clears)
	fmt.Fprintf(w, "  Theme:       %s\n", st.Theme)

	fmt.Fprintf(w, "\nParser\n")
	fmt.Fprintf(w, "  Tags:        %d\n", st.Parser.TagsEmitted)
	fmt.Fprintf(w, "  Overflows:   %d\n", st.Parser.Overflows)
	fmt.Fprintf(w, "  Auto-closed: %d\n", st.Parser.AutoClosed)
	fmt.Fprintf(w, "  Stray:       %d\n", st.Parser.StrayCloses)

	if len(st.Streams) > 0 {
		fmt.Fprintf(w, "\nStreams\n")
		ids := make([]string, 0, len(st.Streams))
		for id := range st.Streams {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			label := id
			if label == session.MainStream {
				label = "(main)"
			}
			fmt.Fprintf(w, "  %-12s %d\n", label+":", st.Streams[id])
		}
	}
}

// =============================================================================
// PRINT SINK
// =============================================================================

// printSink writes session output to a terminal.
type printSink struct {
	mu      sync.Mutex
	w       io.Writer
	re      *lipgloss.Renderer
	logger  *log.Logger
	midLine bool // the last write did not end with a newline
}

func newPrintSink(w io.Writer, re *lipgloss.Renderer, logger *log.Logger) *printSink {
	return &printSink{w: w, re: re, logger: logger}
}

// Deliver implements session.Sink.
func (p *printSink) Deliver(stream string, msg render.Message) {
	text := render.ANSI(msg, p.re)
	if text == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if stream != session.MainStream {
		if p.midLine {
			io.WriteString(p.w, "\n")
		}
		text = prefixLines(text, "["+stream+"] ")
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
	}
	io.WriteString(p.w, text)
	p.midLine = !strings.HasSuffix(text, "\n")
}

// Clear implements session.Sink. A terminal cannot take back what it has
// printed, so clears are only logged.
func (p *printSink) Clear(stream string) {
	p.logger.Debug("stream cleared", "stream", stream)
}

// finish ends an unterminated last line.
func (p *printSink) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.midLine {
		io.WriteString(p.w, "\n")
		p.midLine = false
	}
}

// prefixLines puts prefix before every non-empty line of s.
func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// newRenderer returns the lipgloss renderer for w.
func newRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	return styles.NewTerminalRenderer(w, colorProfile(w, noColor))
}

var _ session.Sink = (*printSink)(nil)
