// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view_cmd.go - View command implementation for mudlark.
//
// Command: view <file|->
// Short:   Replay a capture into the scrollback viewer
// Aliases: v
//
// Each stream gets its own tab. Keys: tab/shift+tab switch tabs, arrows and
// pgup/pgdn scroll, g/G jump to top/bottom, q quits.
//
// Examples:
//   mudlark view session.log
//   mudlark view session.log --rate 30 --timestamps
package cli

import (
	"context"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mudlark/internal/session"
	"github.com/jeranaias/mudlark/internal/ui/viewer"
)

// HandleView handles the "view" command.
func HandleView(ctx context.Context, args Args, s Streams) error {
	if err := requiresTTY("view", s.Out); err != nil {
		return err
	}

	// Log lines would tear the alternate screen; only debug logging is kept,
	// on stderr, for redirecting to a file.
	logOut := io.Discard
	if args.Verbose || args.LogLevel == "debug" {
		logOut = s.Err
	}
	p, err := newPipeline(args, logOut)
	if err != nil {
		return err
	}

	in, err := openInput(args.Input, s.In)
	if err != nil {
		return NewCommandError("view", "open", err)
	}
	defer in.Close()

	title := "mudlark"
	if args.Input != "-" {
		title = "mudlark: " + filepath.Base(args.Input)
	}
	model := viewer.New(viewer.Config{
		Theme:    p.theme,
		Renderer: newRenderer(s.Out, p.cfg.Display.NoColor),
		Title:    title,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithOutput(s.Out)}
	if args.Input == "-" {
		// stdin carries the capture; keys come from the terminal.
		opts = append(opts, tea.WithInputTTY())
	} else {
		opts = append(opts, tea.WithInput(s.In))
	}
	prog := tea.NewProgram(model, opts...)

	// The viewer wraps to its own width.
	scfg, err := p.sessionConfig(0)
	if err != nil {
		return err
	}
	scfg.WrapWidth = 0
	sink := viewer.NewProgramSink(prog)
	sess := session.New(scfg, sink)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.watchThemes(ctx, sess.ThemeReloaded, sink.ThemeUpdater())

	go func() {
		stats, err := p.feeder().Run(ctx, in, sess)
		if ctx.Err() != nil {
			return
		}
		prog.Send(viewer.DoneMsg{Messages: stats.Messages, Err: err})
	}()

	_, err = prog.Run()
	cancel()
	if err != nil {
		return NewCommandError("view", "run", err)
	}
	return nil
}
