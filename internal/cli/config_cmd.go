// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for mudlark.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Show configuration file path
//   init [--force]      Write the default configuration file
//   get <key>           Show one value
//   set <key> <value>   Set a value in the configuration file
//   keys                List configuration keys
//
// Examples:
//   mudlark config set display.theme light
//   mudlark config set replay.chunks_per_second 20
//   mudlark config get parser.max_buffer
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/mudlark/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args, s Streams) error {
	switch args.Subcommand {
	case "show", "":
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "# %s\n", configFile(args))
		fmt.Fprint(s.Out, cfg.String())
		return nil

	case "path":
		fmt.Fprintln(s.Out, configFile(args))
		return nil

	case "init":
		return handleConfigInit(args, s)

	case "get":
		if len(args.Params) != 1 {
			return NewUsageError("config get needs a key", "mudlark config get display.theme")
		}
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		val, err := cfg.Get(args.Params[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(s.Out, val)
		return nil

	case "set":
		if len(args.Params) != 2 {
			return NewUsageError("config set needs a key and a value", "mudlark config set display.theme light")
		}
		return handleConfigSet(args, args.Params[0], args.Params[1], s)

	case "keys":
		fmt.Fprintln(s.Out, strings.Join(config.GetAllKeys(), "\n"))
		return nil

	default:
		return NewUsageError(
			fmt.Sprintf("unknown config subcommand %q", args.Subcommand),
			"mudlark config [show|path|init|get|set|keys]")
	}
}

// configFile returns the file the command reads and writes.
func configFile(args Args) string {
	if args.ConfigPath != "" {
		return args.ConfigPath
	}
	path, err := config.ConfigPath()
	if err != nil {
		return "(unavailable: " + err.Error() + ")"
	}
	return path
}

func handleConfigInit(args Args, s Streams) error {
	path := configFile(args)
	force := args.Options != nil && args.Options.BoolFlag("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", err)
	}
	fmt.Fprintf(s.Out, "Configuration written to %s\n", path)
	return nil
}

// handleConfigSet edits the file itself, so environment overrides are not
// written back.
func handleConfigSet(args Args, key, value string, s Streams) error {
	path := configFile(args)
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", err)
	}

	val, _ := cfg.Get(key)
	fmt.Fprintf(s.Out, "%s = %v\n", key, val)
	return nil
}
