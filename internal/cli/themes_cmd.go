// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// themes_cmd.go - Themes command implementation for mudlark.
//
// Command: themes [subcommand]
// Short:   List, show and export color themes
// Aliases: theme
//
// Subcommands:
//   list (default)      List themes; * marks display.theme
//   show [NAME]         Print a theme as TOML
//   preview [NAME]      Render sample output with a theme
//   export NAME [PATH]  Write a theme file (default: <theme dir>/NAME.toml)
//
// Examples:
//   mudlark themes
//   mudlark themes export default ~/.mudlark/themes/mine.toml
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mudlark/internal/session"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// previewDoc exercises every style a theme assigns.
const previewDoc = `<preset id="roomName">[Town Square, Fountain]</preset>
<preset id="roomDesc">Water splashes in a stone basin. A <a noun="fountain">fountain</a> stands here.</preset>
<b>Also here:</b> a <preset id="bold">town guard</preset>.
<preset id="speech">You say, "Hello."</preset>
<preset id="whisper">Someone whispers, "Over here."</preset>
<pushStream id="thoughts"/><preset id="thought">Your mind hears a friend thinking.</preset>
<popStream/><pushStream id="logons"/>* A traveler joins the adventure.
<popStream/>Type <d cmd="look">LOOK</d> to look around.
`

// HandleThemes handles the "themes" command.
func HandleThemes(args Args, s Streams) error {
	p, err := newPipeline(Args{
		ConfigPath: args.ConfigPath,
		LogLevel:   args.LogLevel,
		Verbose:    args.Verbose,
	}, s.Err)
	if err != nil {
		return err
	}

	param := func(i int) string {
		if i < len(args.Params) {
			return args.Params[i]
		}
		return ""
	}
	theme := func(name string) (*styles.Theme, error) {
		if name == "" {
			return p.theme, nil
		}
		return p.registry.Get(name)
	}

	switch args.Subcommand {
	case "list", "ls":
		return handleThemesList(p, s)

	case "show":
		th, err := theme(param(0))
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "# mudlark theme %q\n\n", th.Name)
		if err := toml.NewEncoder(s.Out).Encode(th); err != nil {
			return NewCommandError("themes", "show", err)
		}
		return nil

	case "preview":
		th, err := theme(param(0))
		if err != nil {
			return err
		}
		return handleThemesPreview(p, th, s)

	case "export":
		if param(0) == "" {
			return NewUsageError("themes export needs a theme name", "mudlark themes export NAME [PATH]")
		}
		th, err := p.registry.Get(param(0))
		if err != nil {
			return err
		}
		return handleThemesExport(p, th, param(1), s)

	default:
		return NewUsageError(
			fmt.Sprintf("unknown themes subcommand %q", args.Subcommand),
			"mudlark themes [list|show|preview|export]")
	}
}

func handleThemesList(p *pipeline, s Streams) error {
	for _, name := range p.registry.Names() {
		marker := " "
		if name == p.theme.Name {
			marker = "*"
		}
		source := "file"
		if _, ok := styles.Builtin(name); ok {
			source = "built-in"
		}
		fmt.Fprintf(s.Out, "%s %-20s %s\n", marker, name, source)
	}
	if dir := p.registry.Dir(); dir != "" {
		fmt.Fprintf(s.Out, "\nTheme directory: %s\n", dir)
	}
	return nil
}

func handleThemesPreview(p *pipeline, th *styles.Theme, s Streams) error {
	scfg, err := p.sessionConfig(terminalWidth(s.Out))
	if err != nil {
		return err
	}
	scfg.Theme = th

	sink := newPrintSink(s.Out, newRenderer(s.Out, p.cfg.Display.NoColor), p.logger)
	sess := session.New(scfg, sink)
	now := time.Now()
	sess.Feed(previewDoc, now)
	sess.Flush(now)
	sink.finish()
	return nil
}

func handleThemesExport(p *pipeline, th *styles.Theme, path string, s Streams) error {
	if path == "" {
		dir := p.registry.Dir()
		if dir == "" {
			return NewUsageError("no theme directory configured; give a PATH", "mudlark themes export NAME PATH")
		}
		path = filepath.Join(dir, th.Name+styles.ThemeFileExt)
	}
	if err := styles.SaveTheme(th, path); err != nil {
		return NewCommandError("themes", "export", err)
	}
	fmt.Fprintf(s.Out, "Theme %q written to %s\n", th.Name, path)
	return nil
}
