// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Parser.MaxBuffer != 10*1024 {
		t.Errorf("Default MaxBuffer = %d, want 10240", cfg.Parser.MaxBuffer)
	}
	if cfg.Parser.MaxDepth != 256 {
		t.Errorf("Default MaxDepth = %d, want 256", cfg.Parser.MaxDepth)
	}
	if cfg.Display.Theme != "default" {
		t.Errorf("Default theme = %q, want 'default'", cfg.Display.Theme)
	}
	if cfg.Replay.ChunkSize != 512 {
		t.Errorf("Default ChunkSize = %d, want 512", cfg.Replay.ChunkSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"max buffer too small", func(c *Config) { c.Parser.MaxBuffer = 10 }, "parser.max_buffer"},
		{"max buffer too large", func(c *Config) { c.Parser.MaxBuffer = 1 << 30 }, "parser.max_buffer"},
		{"zero depth", func(c *Config) { c.Parser.MaxDepth = 0 }, "parser.max_depth"},
		{"empty theme", func(c *Config) { c.Display.Theme = "  " }, "display.theme"},
		{"narrow wrap", func(c *Config) { c.Display.WrapWidth = 5 }, "display.wrap_width"},
		{"wrap disabled", func(c *Config) { c.Display.WrapWidth = 0 }, ""},
		{"utc zone", func(c *Config) { c.Display.TimestampZone = "UTC" }, ""},
		{"bad zone", func(c *Config) { c.Display.TimestampZone = "Mars/Olympus" }, "display.timestamp_zone"},
		{"zero chunk", func(c *Config) { c.Replay.ChunkSize = 0 }, "replay.chunk_size"},
		{"negative rate", func(c *Config) { c.Replay.ChunksPerSecond = -1 }, "replay.chunks_per_second"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidateErrors", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.wantField {
				t.Errorf("Validate() = %v, want one error on %s", verrs, tt.wantField)
			}
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	c := Default()
	c.Parser.MaxDepth = -1
	c.Log.Level = "nope"

	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "parser.max_depth") || !strings.Contains(err.Error(), "log.level") {
		t.Errorf("Validate() = %v, want both errors", err)
	}
}

// =============================================================================
// LOAD / SAVE TESTS
// =============================================================================

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[parser]
max_buffer = 4096

[display]
theme = "dusk"
timestamps = true
wrap_width = 100

[log]
level = "debug"
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Parser.MaxBuffer != 4096 {
		t.Errorf("MaxBuffer = %d, want 4096", cfg.Parser.MaxBuffer)
	}
	if cfg.Parser.MaxDepth != 256 {
		t.Errorf("MaxDepth = %d, want default 256", cfg.Parser.MaxDepth)
	}
	if cfg.Display.Theme != "dusk" || !cfg.Display.Timestamps || cfg.Display.WrapWidth != 100 {
		t.Errorf("Display = %+v", cfg.Display)
	}
	if !cfg.Display.WatchThemes {
		t.Error("WatchThemes should keep its default when omitted")
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	writeFile(t, unknown, "[display]\ncolour = true\n")
	if _, err := LoadFromPath(unknown); err == nil || !strings.Contains(err.Error(), "display.colour") {
		t.Errorf("unknown key error = %v", err)
	}

	broken := filepath.Join(dir, "broken.toml")
	writeFile(t, broken, "[parser\n")
	if _, err := LoadFromPath(broken); err == nil {
		t.Error("expected decode error")
	}

	invalid := filepath.Join(dir, "invalid.toml")
	writeFile(t, invalid, "[replay]\nchunk_size = -4\n")
	if _, err := LoadFromPath(invalid); err == nil || !strings.Contains(err.Error(), "replay.chunk_size") {
		t.Errorf("validation error = %v", err)
	}

	if _, err := LoadFromPath(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_HomeDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MUDLARK_THEME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without a file error = %v", err)
	}
	if cfg.Display.Theme != "default" {
		t.Errorf("Theme = %q, want default", cfg.Display.Theme)
	}

	cfg.Display.Theme = "light"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(home, ".mudlark", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# mudlark configuration file") {
		t.Errorf("saved file lacks header:\n%s", data)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Display.Theme != "light" {
		t.Errorf("reloaded theme = %q, want light", reloaded.Display.Theme)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Replay.ChunksPerSecond = 12.5
	cfg.Display.TimestampZone = "UTC"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error = %v", err)
	}
	got, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

// =============================================================================
// ENVIRONMENT TESTS
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MUDLARK_THEME", "light")
	t.Setenv("MUDLARK_THEME_DIR", "/tmp/themes")
	t.Setenv("MUDLARK_TIMESTAMPS", "yes")
	t.Setenv("MUDLARK_WRAP_WIDTH", "72")
	t.Setenv("MUDLARK_LOG_LEVEL", "error")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Display.Theme != "light" {
		t.Errorf("Theme = %q", cfg.Display.Theme)
	}
	if cfg.Display.ThemeDir != "/tmp/themes" {
		t.Errorf("ThemeDir = %q", cfg.Display.ThemeDir)
	}
	if !cfg.Display.Timestamps {
		t.Error("Timestamps should be enabled")
	}
	if cfg.Display.WrapWidth != 72 {
		t.Errorf("WrapWidth = %d", cfg.Display.WrapWidth)
	}
	if cfg.LogLevel() != log.ErrorLevel {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
}

func TestApplyEnvOverrides_BadWidthIgnored(t *testing.T) {
	t.Setenv("MUDLARK_WRAP_WIDTH", "wide")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Display.WrapWidth != 0 {
		t.Errorf("WrapWidth = %d, want 0", cfg.Display.WrapWidth)
	}
}

// =============================================================================
// ACCESSOR TESTS
// =============================================================================

// TestConfig_GetSet tests Get and Set methods with dot notation.
func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("display.theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if val != "default" {
		t.Errorf("Get('display.theme') = %v, want 'default'", val)
	}

	if err := cfg.Set("parser.max_buffer", "2048"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if cfg.Parser.MaxBuffer != 2048 {
		t.Errorf("MaxBuffer after Set = %d", cfg.Parser.MaxBuffer)
	}

	if err := cfg.Set("replay.chunks_per_second", "2.5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Set("display.timestamps", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cfg.Set("display.wrap_width", 80); err != nil {
		t.Fatalf("Set() with int error = %v", err)
	}
	if cfg.Replay.ChunksPerSecond != 2.5 || !cfg.Display.Timestamps || cfg.Display.WrapWidth != 80 {
		t.Errorf("Set values not applied: %+v %+v", cfg.Replay, cfg.Display)
	}

	for _, key := range []string{"invalid.key", "display", "display.theme.name", ""} {
		if _, err := cfg.Get(key); err == nil {
			t.Errorf("Get(%q) should return error", key)
		}
	}
	if err := cfg.Set("parser.max_depth", "deep"); err == nil {
		t.Error("Set() with bad integer should fail")
	}
}

func TestGetAllKeys(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) error = %v", key, err)
		}
	}
}

func TestConfig_Clone(t *testing.T) {
	original := Default()
	clone := original.Clone()
	clone.Display.Theme = "cloned"

	if original.Display.Theme != "default" {
		t.Error("Clone should create an independent copy")
	}
}

func TestConfig_ThemeDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	dir, err := cfg.ThemeDir()
	if err != nil || dir != filepath.Join(home, ".mudlark", "themes") {
		t.Errorf("ThemeDir() = %q, %v", dir, err)
	}

	cfg.Display.ThemeDir = "~/colors"
	if dir, _ := cfg.ThemeDir(); dir != filepath.Join(home, "colors") {
		t.Errorf("ThemeDir() = %q", dir)
	}

	cfg.Display.ThemeDir = "/etc/mudlark"
	if dir, _ := cfg.ThemeDir(); dir != "/etc/mudlark" {
		t.Errorf("ThemeDir() = %q", dir)
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := Default()
	if loc, err := cfg.Location(); err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v; want Local", loc, err)
	}

	cfg.Display.TimestampZone = "UTC"
	if loc, err := cfg.Location(); err != nil || loc != time.UTC {
		t.Errorf("Location() = %v, %v; want UTC", loc, err)
	}
}

func TestConfig_LogFormatter(t *testing.T) {
	cfg := Default()
	if cfg.LogFormatter() != log.TextFormatter {
		t.Error("default formatter should be text")
	}
	cfg.Log.Format = "JSON"
	if cfg.LogFormatter() != log.JSONFormatter {
		t.Error("json formatter expected")
	}
}
