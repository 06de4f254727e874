// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/mudlark/internal/config"
	"github.com/jeranaias/mudlark/internal/parser"
	"github.com/jeranaias/mudlark/internal/render"
	"github.com/jeranaias/mudlark/internal/replay"
	"github.com/jeranaias/mudlark/internal/session"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// loadConfig loads the configuration file named by --config, or the default
// one, and applies the global log flags.
func loadConfig(args Args) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// applyDisplayFlags copies replay/view flags over cfg and revalidates it.
func applyDisplayFlags(cfg *config.Config, opts *ArgParser) error {
	if opts == nil {
		return nil
	}
	if theme := opts.Flag("theme"); theme != "" {
		cfg.Display.Theme = theme
	}
	if opts.HasFlag("chunk") {
		n, err := ParseIntWithValidation(opts.Flag("chunk"), "--chunk")
		if err != nil {
			return NewUsageError(err.Error(), "--chunk 512")
		}
		cfg.Replay.ChunkSize = n
	}
	if opts.HasFlag("rate") {
		r, err := strconv.ParseFloat(opts.Flag("rate"), 64)
		if err != nil || r < 0 {
			return NewUsageError(fmt.Sprintf("--rate must be a non-negative number, got %q", opts.Flag("rate")), "--rate 20")
		}
		cfg.Replay.ChunksPerSecond = r
	}
	if opts.HasFlag("width") {
		w, err := strconv.Atoi(opts.Flag("width"))
		if err != nil || w < 0 {
			return NewUsageError(fmt.Sprintf("--width must be a non-negative integer, got %q", opts.Flag("width")), "--width 100")
		}
		cfg.Display.WrapWidth = w
	}
	if opts.HasFlag("timestamps") {
		cfg.Display.Timestamps = opts.BoolFlag("timestamps")
	}
	if opts.HasFlag("no-color") {
		cfg.Display.NoColor = opts.BoolFlag("no-color")
	}
	if opts.BoolFlag("no-watch") {
		cfg.Display.WatchThemes = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	level := cfg.LogLevel()
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       cfg.LogFormatter(),
		Prefix:          "mudlark",
		ReportTimestamp: level <= log.DebugLevel,
	})
}

// =============================================================================
// PIPELINE
// =============================================================================

// pipeline is everything a replay needs except the sink.
type pipeline struct {
	cfg      *config.Config
	logger   *log.Logger
	registry *styles.Registry
	theme    *styles.Theme
}

// newPipeline loads the configuration, applies the command flags, and
// resolves the theme. Logs go to logOut.
func newPipeline(args Args, logOut io.Writer) (*pipeline, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}
	if err := applyDisplayFlags(cfg, args.Options); err != nil {
		return nil, err
	}
	logger := newLogger(cfg, logOut)

	dir, err := cfg.ThemeDir()
	if err != nil {
		logger.Warn("no theme directory", "err", err)
		dir = ""
	}
	reg := styles.NewRegistry(dir, logger)
	if err := reg.LoadDir(); err != nil {
		logger.Warn("some themes failed to load", "err", err)
	}

	th, err := reg.Get(cfg.Display.Theme)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, reg.Names())
	}

	return &pipeline{cfg: cfg, logger: logger, registry: reg, theme: th}, nil
}

// sessionConfig returns the session configuration. wrapWidth is used when
// the configuration does not set one.
func (p *pipeline) sessionConfig(wrapWidth int) (session.Config, error) {
	loc, err := p.cfg.Location()
	if err != nil {
		return session.Config{}, fmt.Errorf("invalid display.timestamp_zone: %w", err)
	}
	if p.cfg.Display.WrapWidth > 0 {
		wrapWidth = p.cfg.Display.WrapWidth
	}

	return session.Config{
		Parser: parser.Config{
			MaxBuffer: p.cfg.Parser.MaxBuffer,
			MaxDepth:  p.cfg.Parser.MaxDepth,
			Logger:    p.logger,
		},
		Theme: p.theme,
		Timestamps: render.TimestampSettings{
			Enabled:  p.cfg.Display.Timestamps,
			Location: loc,
		},
		WrapWidth: wrapWidth,
		Logger:    p.logger,
	}, nil
}

// feeder returns the replay feeder.
func (p *pipeline) feeder() *replay.Feeder {
	return replay.New(replay.Config{
		ChunkSize:       p.cfg.Replay.ChunkSize,
		ChunksPerSecond: p.cfg.Replay.ChunksPerSecond,
		Logger:          p.logger,
	})
}

// watchThemes subscribes fns to theme reloads and starts the watcher when
// display.watch_themes is on.
func (p *pipeline) watchThemes(ctx context.Context, fns ...func(*styles.Theme)) {
	for _, fn := range fns {
		p.registry.Subscribe(fn)
	}
	if !p.cfg.Display.WatchThemes {
		return
	}
	if err := p.registry.Watch(ctx); err != nil {
		p.logger.Warn("theme hot reload disabled", "err", err)
	}
}

// openInput opens the capture file, or stdin for "-".
func openInput(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == "-" {
		if stdin == nil {
			return nil, fmt.Errorf("no standard input")
		}
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}
