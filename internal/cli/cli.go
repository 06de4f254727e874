// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and dispatch for mudlark.
package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHelp Command = iota
	CmdReplay
	CmdView
	CmdThemes
	CmdConfig
	CmdVersion
)

var commandNames = map[string]Command{
	"replay":    CmdReplay,
	"r":         CmdReplay,
	"view":      CmdView,
	"v":         CmdView,
	"themes":    CmdThemes,
	"theme":     CmdThemes,
	"config":    CmdConfig,
	"version":   CmdVersion,
	"--version": CmdVersion,
	"help":      CmdHelp,
	"--help":    CmdHelp,
	"-h":        CmdHelp,
}

// boolFlags never take a value.
var boolFlags = []string{
	"timestamps", "no-color", "no-watch", "stats", "force", "verbose", "v",
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config FILE instead of ~/.mudlark/config.toml
	LogLevel   string // --log-level, overrides log.level
	Verbose    bool   // -v/--verbose: debug logging

	// Command-specific
	Input      string // replay/view: capture file, "-" for stdin
	Subcommand string // themes/config
	Params     []string

	// Options holds the command's flags (--theme, --chunk, ...)
	Options *ArgParser
}

const usageText = `mudlark - render MUD server markup in the terminal

Usage:
  mudlark replay <file|->      Render a captured session log
  mudlark view <file|->        Replay a capture into the scrollback viewer
  mudlark themes [subcommand]  List, show and export themes
  mudlark config [subcommand]  Show and edit configuration
  mudlark version              Show version information
  mudlark help                 Show this help

Replay/View Options:
  --theme NAME                 Theme to render with (default: display.theme)
  --chunk N                    Bytes fed to the parser per chunk (default: 512)
  --rate N                     Chunks per second; 0 replays at full speed
  --timestamps                 Prefix each message with [HH:MM:SS]
  --width N                    Wrap output at N columns (0: terminal width)
  --no-color                   Plain text output
  --no-watch                   Do not reload theme files when they change
  --stats                      Print parser and session statistics when done

Theme Commands:
  mudlark themes               List available themes (* marks the active one)
  mudlark themes show [NAME]   Print a theme as TOML
  mudlark themes preview [NAME]
                               Render sample output with a theme
  mudlark themes export NAME [PATH]
                               Write a theme file to edit (default: theme dir)

Config Commands:
  mudlark config show          Show the effective configuration
  mudlark config path          Show the configuration file path
  mudlark config init [--force]
                               Write the default configuration file
  mudlark config get KEY       Show one value (e.g. display.theme)
  mudlark config set KEY VALUE Change one value in the configuration file
  mudlark config keys          List all configuration keys

Global Options:
  --config FILE                Use FILE instead of ~/.mudlark/config.toml
  --log-level LEVEL            debug, info, warn or error
  -v, --verbose                Same as --log-level debug

Environment:
  MUDLARK_THEME, MUDLARK_THEME_DIR, MUDLARK_TIMESTAMPS, MUDLARK_WRAP_WIDTH,
  MUDLARK_LOG_LEVEL override the configuration file. NO_COLOR disables color.

Examples:
  mudlark replay session.log --timestamps
  cat session.log | mudlark replay - --theme light --no-color
  mudlark view session.log --rate 50
`

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "mudlark %s\n", Version)
	fmt.Fprintf(w, "  commit:  %s\n", GitCommit)
	fmt.Fprintf(w, "  built:   %s\n", BuildDate)
	fmt.Fprintf(w, "  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses the arguments after the program name. No arguments means help.
func Parse(raw []string) (Command, Args, error) {
	if len(raw) == 0 {
		return CmdHelp, Args{Options: NewArgParser(nil)}, nil
	}

	cmd, ok := commandNames[strings.ToLower(raw[0])]
	if !ok {
		return CmdHelp, Args{}, NewUsageError(
			fmt.Sprintf("unknown command %q", raw[0]), "mudlark help")
	}

	opts := NewArgParser(raw[1:], boolFlags...)
	args := Args{
		ConfigPath: opts.Flag("config"),
		LogLevel:   opts.Flag("log-level"),
		Verbose:    opts.BoolFlag("verbose") || opts.BoolFlag("v"),
		Options:    opts,
	}
	for i := 0; i < opts.PositionalCount(); i++ {
		args.Params = append(args.Params, opts.Positional(i))
	}

	switch cmd {
	case CmdReplay, CmdView:
		name := "replay"
		if cmd == CmdView {
			name = "view"
		}
		if len(args.Params) != 1 {
			return cmd, args, NewUsageError(
				name+" needs exactly one capture file", "mudlark "+name+" <file|->")
		}
		args.Input = args.Params[0]
		args.Params = nil

	case CmdThemes:
		args.Subcommand, args.Params = splitSubcommand(args.Params, "list")

	case CmdConfig:
		args.Subcommand, args.Params = splitSubcommand(args.Params, "show")
	}
	return cmd, args, nil
}

func splitSubcommand(params []string, def string) (string, []string) {
	if len(params) == 0 {
		return def, nil
	}
	return strings.ToLower(params[0]), params[1:]
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes cmd.
func Run(ctx context.Context, cmd Command, args Args, s Streams) error {
	switch cmd {
	case CmdReplay:
		return HandleReplay(ctx, args, s)
	case CmdView:
		return HandleView(ctx, args, s)
	case CmdThemes:
		return HandleThemes(args, s)
	case CmdConfig:
		return HandleConfig(args, s)
	case CmdVersion:
		PrintVersion(s.Out)
		return nil
	default:
		PrintUsage(s.Out)
		return nil
	}
}
