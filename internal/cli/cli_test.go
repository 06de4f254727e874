// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/jeranaias/mudlark/internal/render"
	"github.com/jeranaias/mudlark/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"MUDLARK_THEME", "MUDLARK_THEME_DIR", "MUDLARK_TIMESTAMPS",
		"MUDLARK_WRAP_WIDTH", "MUDLARK_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	return home
}

func runCLI(t *testing.T, stdin string, argv ...string) (string, string, error) {
	t.Helper()
	cmd, args, err := Parse(argv)
	if err != nil {
		return "", "", err
	}
	var out, errOut bytes.Buffer
	err = Run(context.Background(), cmd, args, Streams{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name: "flag with value",
			args: []string{"game.log", "--chunk", "64"},
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("chunk") != "64" || p.Positional(0) != "game.log" {
					t.Errorf("chunk=%q pos0=%q", p.Flag("chunk"), p.Positional(0))
				}
			},
		},
		{
			name: "flag with equals",
			args: []string{"--theme=light"},
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("theme") != "light" {
					t.Errorf("Flag(theme) = %q", p.Flag("theme"))
				}
			},
		},
		{
			name: "known bool flag does not take a value",
			args: []string{"--timestamps", "game.log"},
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("timestamps") {
					t.Error("BoolFlag(timestamps) should be true")
				}
				if p.Positional(0) != "game.log" {
					t.Errorf("Positional(0) = %q", p.Positional(0))
				}
			},
		},
		{
			name: "explicit false",
			args: []string{"--timestamps=false"},
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("timestamps") || !p.HasFlag("timestamps") {
					t.Error("timestamps should be present and false")
				}
			},
		},
		{
			name: "dash is stdin",
			args: []string{"-", "--no-color"},
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(0) != "-" || !p.BoolFlag("no-color") {
					t.Errorf("pos0=%q no-color=%v", p.Positional(0), p.BoolFlag("no-color"))
				}
			},
		},
		{
			name: "double dash ends flags",
			args: []string{"--", "--weird-name.log"},
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 1 || p.Positional(0) != "--weird-name.log" {
					t.Errorf("positional = %v", p.positional)
				}
			},
		},
		{
			name: "unknown trailing flag is boolean",
			args: []string{"--json"},
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") || p.Flag("json") != "" {
					t.Error("--json should be a bool flag")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, NewArgParser(tt.args, boolFlags...))
		})
	}
}

func TestParseIntWithValidation(t *testing.T) {
	if n, err := ParseIntWithValidation("12", "n"); err != nil || n != 12 {
		t.Errorf("got %d, %v", n, err)
	}
	for _, bad := range []string{"", "x", "0", "-3"} {
		if _, err := ParseIntWithValidation(bad, "n"); err == nil {
			t.Errorf("%q should fail", bad)
		}
	}
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		argv    []string
		wantCmd Command
		check   func(*testing.T, Args)
	}{
		{argv: nil, wantCmd: CmdHelp},
		{argv: []string{"--help"}, wantCmd: CmdHelp},
		{argv: []string{"version"}, wantCmd: CmdVersion},
		{
			argv:    []string{"replay", "game.log", "--theme", "light", "-v"},
			wantCmd: CmdReplay,
			check: func(t *testing.T, a Args) {
				if a.Input != "game.log" || !a.Verbose || a.Options.Flag("theme") != "light" {
					t.Errorf("args = %+v", a)
				}
			},
		},
		{
			argv:    []string{"v", "-"},
			wantCmd: CmdView,
			check: func(t *testing.T, a Args) {
				if a.Input != "-" {
					t.Errorf("Input = %q", a.Input)
				}
			},
		},
		{
			argv:    []string{"themes"},
			wantCmd: CmdThemes,
			check: func(t *testing.T, a Args) {
				if a.Subcommand != "list" {
					t.Errorf("Subcommand = %q", a.Subcommand)
				}
			},
		},
		{
			argv:    []string{"config", "--config", "/tmp/x.toml", "set", "display.theme", "light"},
			wantCmd: CmdConfig,
			check: func(t *testing.T, a Args) {
				if a.ConfigPath != "/tmp/x.toml" || a.Subcommand != "set" ||
					len(a.Params) != 2 || a.Params[1] != "light" {
					t.Errorf("args = %+v", a)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cmd != tt.wantCmd {
				t.Errorf("cmd = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, argv := range [][]string{
		{"frobnicate"},
		{"replay"},
		{"replay", "a.log", "b.log"},
	} {
		_, _, err := Parse(argv)
		if ExitCode(err) != ExitUsageError {
			t.Errorf("Parse(%v) error = %v, want usage error", argv, err)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{NewUsageError("bad", ""), ExitUsageError},
		{NewCommandError("replay", "open", os.ErrNotExist), ExitGeneralError},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, errors.New("no such theme"))
	if buf.String() != "Error: no such theme\n" {
		t.Errorf("DisplayError wrote %q", buf.String())
	}
}

// =============================================================================
// REPLAY TESTS
// =============================================================================

const captureDoc = "<preset id=\"speech\">You say, \"Hi.\"</preset>\n" +
	"<pushStream id=\"thoughts\"/>You think.\n<popStream/>>"

func TestHandleReplay(t *testing.T) {
	isolate(t)
	path := writeFile(t, "game.log", captureDoc)

	for _, chunk := range []string{"512", "1", "7"} {
		t.Run("chunk="+chunk, func(t *testing.T) {
			out, _, err := runCLI(t, "", "replay", path, "--no-watch", "--chunk", chunk)
			if err != nil {
				t.Fatalf("replay error = %v", err)
			}
			want := "You say, \"Hi.\"\n[thoughts] You think.\n>\n"
			if out != want {
				t.Errorf("output = %q, want %q", out, want)
			}
		})
	}
}

func TestHandleReplay_Stdin(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "<b>Stdin</b> works.\n", "replay", "-", "--no-watch")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if out != "Stdin works.\n" {
		t.Errorf("output = %q", out)
	}
}

func TestHandleReplay_Timestamps(t *testing.T) {
	isolate(t)
	path := writeFile(t, "game.log", "Hello.\n")
	out, _, err := runCLI(t, "", "replay", path, "--no-watch", "--timestamps")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if len(out) < 11 || out[0] != '[' || out[9] != ']' || !strings.HasSuffix(out, "Hello.\n") {
		t.Errorf("output = %q, want [HH:MM:SS] prefix", out)
	}
}

func TestHandleReplay_Stats(t *testing.T) {
	isolate(t)
	path := writeFile(t, "game.log", captureDoc)
	_, errOut, err := runCLI(t, "", "replay", path, "--no-watch", "--stats")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	for _, want := range []string{"Parser", "thoughts:", "(main):", "Theme:       default"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stats missing %q:\n%s", want, errOut)
		}
	}
}

func TestHandleReplay_Errors(t *testing.T) {
	isolate(t)
	path := writeFile(t, "game.log", "x")

	_, _, err := runCLI(t, "", "replay", filepath.Join(t.TempDir(), "missing.log"))
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	_, _, err = runCLI(t, "", "replay", path, "--theme", "nope")
	if !errors.Is(err, styles.ErrUnknownTheme) {
		t.Errorf("unknown theme error = %v", err)
	}

	_, _, err = runCLI(t, "", "replay", path, "--chunk", "0")
	if ExitCode(err) != ExitUsageError {
		t.Errorf("--chunk 0 error = %v", err)
	}

	_, _, err = runCLI(t, "", "replay", path, "--width", "5")
	if ExitCode(err) != ExitConfigError {
		t.Errorf("--width 5 error = %v, want config error", err)
	}
}

func TestHandleReplay_ThemeFromDirectory(t *testing.T) {
	home := isolate(t)
	themeDir := filepath.Join(home, ".mudlark", "themes")
	th := styles.Light()
	th.Name = "mine"
	if err := styles.SaveTheme(th, filepath.Join(themeDir, "mine.toml")); err != nil {
		t.Fatal(err)
	}

	path := writeFile(t, "game.log", "ok\n")
	out, _, err := runCLI(t, "", "replay", path, "--no-watch", "--theme", "mine")
	if err != nil {
		t.Fatalf("replay error = %v", err)
	}
	if out != "ok\n" {
		t.Errorf("output = %q", out)
	}
}

func TestHandleView_RequiresTTY(t *testing.T) {
	isolate(t)
	path := writeFile(t, "game.log", "x")
	_, _, err := runCLI(t, "", "view", path)
	var ttyErr *TTYRequiredError
	if !errors.As(err, &ttyErr) {
		t.Errorf("view error = %v, want TTYRequiredError", err)
	}
}

// =============================================================================
// PRINT SINK TESTS
// =============================================================================

func TestPrintSink(t *testing.T) {
	var buf bytes.Buffer
	re := styles.NewTerminalRenderer(io.Discard, termenv.Ascii)
	sink := newPrintSink(&buf, re, log.New(io.Discard))

	sink.Deliver("", render.Message{{Text: "prompt>"}})
	sink.Deliver("death", render.Message{{Text: "A goblin dies.\nAnother falls."}})
	sink.Deliver("", render.Message{})
	sink.Clear("death")
	sink.Deliver("", render.Message{{Text: "more"}})
	sink.finish()

	want := "prompt>\n[death] A goblin dies.\n[death] Another falls.\nmore\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrefixLines(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a", "[s] a"},
		{"a\nb\n", "[s] a\n[s] b\n"},
		{"a\n\nb", "[s] a\n\n[s] b"},
	}
	for _, tt := range tests {
		if got := prefixLines(tt.in, "[s] "); got != tt.want {
			t.Errorf("prefixLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// THEMES / CONFIG / VERSION TESTS
// =============================================================================

func TestHandleThemes(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, "", "themes")
	if err != nil {
		t.Fatalf("themes error = %v", err)
	}
	if !strings.Contains(out, "* default") || !strings.Contains(out, "  light") {
		t.Errorf("list output:\n%s", out)
	}

	out, _, err = runCLI(t, "", "themes", "show", "light")
	if err != nil || !strings.Contains(out, `name = "light"`) {
		t.Errorf("show output (%v):\n%s", err, out)
	}

	out, _, err = runCLI(t, "", "themes", "preview")
	if err != nil {
		t.Fatalf("preview error = %v", err)
	}
	for _, want := range []string{"[Town Square, Fountain]", "[thoughts] Your mind hears", "[logons] * A traveler", "LOOK"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}

	dest := filepath.Join(t.TempDir(), "copy.toml")
	if _, _, err := runCLI(t, "", "themes", "export", "light", dest); err != nil {
		t.Fatalf("export error = %v", err)
	}
	th, err := styles.LoadTheme(dest)
	if err != nil || th.Name != "light" {
		t.Errorf("exported theme = %v, %v", th, err)
	}

	if _, _, err := runCLI(t, "", "themes", "export"); ExitCode(err) != ExitUsageError {
		t.Errorf("export without name error = %v", err)
	}
	if _, _, err := runCLI(t, "", "themes", "show", "nope"); !errors.Is(err, styles.ErrUnknownTheme) {
		t.Errorf("show unknown error = %v", err)
	}
}

func TestHandleConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "", "config", "--config", path, "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Errorf("path = %q, %v", out, err)
	}

	if _, _, err := runCLI(t, "", "config", "--config", path, "init"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, _, err := runCLI(t, "", "config", "--config", path, "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
	if _, _, err := runCLI(t, "", "config", "--config", path, "init", "--force"); err != nil {
		t.Errorf("init --force error = %v", err)
	}

	if _, _, err := runCLI(t, "", "config", "--config", path, "set", "display.theme", "light"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	out, _, err = runCLI(t, "", "config", "--config", path, "get", "display.theme")
	if err != nil || strings.TrimSpace(out) != "light" {
		t.Errorf("get = %q, %v", out, err)
	}

	if _, _, err := runCLI(t, "", "config", "--config", path, "set", "log.level", "loud"); err == nil {
		t.Error("invalid level should be rejected")
	}
	out, _, _ = runCLI(t, "", "config", "--config", path, "get", "log.level")
	if strings.TrimSpace(out) != "warn" {
		t.Errorf("rejected set was saved: log.level = %q", out)
	}

	out, _, err = runCLI(t, "", "config", "--config", path, "show")
	if err != nil || !strings.Contains(out, `theme = "light"`) {
		t.Errorf("show (%v):\n%s", err, out)
	}

	out, _, _ = runCLI(t, "", "config", "keys")
	if !strings.Contains(out, "replay.chunks_per_second") {
		t.Errorf("keys output:\n%s", out)
	}

	if _, _, err := runCLI(t, "", "config", "frob"); ExitCode(err) != ExitUsageError {
		t.Errorf("unknown subcommand error = %v", err)
	}
}

func TestVersionAndHelp(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil || !strings.Contains(out, "mudlark "+Version) {
		t.Errorf("version = %q, %v", out, err)
	}

	out, _, err = runCLI(t, "")
	if err != nil || !strings.Contains(out, "mudlark replay <file|->") {
		t.Errorf("help = %q, %v", out, err)
	}
}
