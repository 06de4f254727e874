// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/mudlark/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mudlark configuration.
type Config struct {
	Parser  ParserConfig  `toml:"parser"`
	Display DisplayConfig `toml:"display"`
	Replay  ReplayConfig  `toml:"replay"`
	Log     LogConfig     `toml:"log"`
}

// ParserConfig contains protocol parser limits.
type ParserConfig struct {
	MaxBuffer int `toml:"max_buffer"` // bytes of unfinished input before discarding
	MaxDepth  int `toml:"max_depth"`
}

// DisplayConfig contains rendering settings.
type DisplayConfig struct {
	Theme    string `toml:"theme"`
	ThemeDir string `toml:"theme_dir"` // default: ~/.mudlark/themes

	// WatchThemes reloads theme files when they change on disk
	WatchThemes bool `toml:"watch_themes"`

	Timestamps    bool   `toml:"timestamps"`
	TimestampZone string `toml:"timestamp_zone"` // IANA name, "UTC" or "" for local time

	WrapWidth int  `toml:"wrap_width"` // 0 disables wrapping
	NoColor   bool `toml:"no_color"`
}

// ReplayConfig contains capture replay settings.
type ReplayConfig struct {
	ChunkSize       int     `toml:"chunk_size"`
	ChunksPerSecond float64 `toml:"chunks_per_second"` // 0: as fast as possible
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, logfmt, json
}

// Limits enforced by Validate.
const (
	MinMaxBuffer = 256
	MaxMaxBuffer = 16 << 20
	MaxMaxDepth  = 4096
	MinWrapWidth = 20
	MaxChunkSize = 1 << 20
)

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxBuffer: 10 * 1024,
			MaxDepth:  256,
		},

		Display: DisplayConfig{
			Theme:       "default",
			WatchThemes: true,
			Timestamps:  false,
		},

		Replay: ReplayConfig{
			ChunkSize: 512,
		},

		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the mudlark configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mudlark"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ThemeDir returns the directory theme files are loaded from, expanding a
// leading "~/".
func (c *Config) ThemeDir() (string, error) {
	dir := c.Display.ThemeDir
	if dir == "" {
		base, err := ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, "themes"), nil
	}
	if rest, ok := strings.CutPrefix(dir, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		return filepath.Join(home, rest), nil
	}
	return dir, nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.mudlark/config.toml, falling back to
// defaults when the file does not exist. Environment overrides are applied
// before validation.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return LoadFromPath(path)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys the file leaves out keep
// their defaults.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any values a file explicitly zeroed.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	// Parser
	if cfg.Parser.MaxBuffer == 0 {
		cfg.Parser.MaxBuffer = defaults.Parser.MaxBuffer
	}
	if cfg.Parser.MaxDepth == 0 {
		cfg.Parser.MaxDepth = defaults.Parser.MaxDepth
	}

	// Display
	if cfg.Display.Theme == "" {
		cfg.Display.Theme = defaults.Display.Theme
	}

	// Replay
	if cfg.Replay.ChunkSize == 0 {
		cfg.Replay.ChunkSize = defaults.Replay.ChunkSize
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file, atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# mudlark configuration file")
	fmt.Fprintln(&buf, "# Generated by mudlark - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validFormats = map[string]bool{"text": true, "logfmt": true, "json": true}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Parser
	if c.Parser.MaxBuffer < MinMaxBuffer || c.Parser.MaxBuffer > MaxMaxBuffer {
		errs = append(errs, ValidationError{
			Field:   "parser.max_buffer",
			Message: fmt.Sprintf("must be between %d and %d bytes, got %d", MinMaxBuffer, MaxMaxBuffer, c.Parser.MaxBuffer),
		})
	}
	if c.Parser.MaxDepth < 1 || c.Parser.MaxDepth > MaxMaxDepth {
		errs = append(errs, ValidationError{
			Field:   "parser.max_depth",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxMaxDepth, c.Parser.MaxDepth),
		})
	}

	// Display
	if strings.TrimSpace(c.Display.Theme) == "" {
		errs = append(errs, ValidationError{Field: "display.theme", Message: "must not be empty"})
	}
	if c.Display.WrapWidth != 0 && c.Display.WrapWidth < MinWrapWidth {
		errs = append(errs, ValidationError{
			Field:   "display.wrap_width",
			Message: fmt.Sprintf("must be 0 (off) or at least %d, got %d", MinWrapWidth, c.Display.WrapWidth),
		})
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, ValidationError{Field: "display.timestamp_zone", Message: err.Error()})
	}

	// Replay
	if c.Replay.ChunkSize < 1 || c.Replay.ChunkSize > MaxChunkSize {
		errs = append(errs, ValidationError{
			Field:   "replay.chunk_size",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxChunkSize, c.Replay.ChunkSize),
		})
	}
	if c.Replay.ChunksPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "replay.chunks_per_second",
			Message: "must not be negative",
		})
	}

	// Log
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: text, logfmt, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Location returns the zone timestamps are shown in. An empty zone means
// local time.
func (c *Config) Location() (*time.Location, error) {
	switch c.Display.TimestampZone {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(c.Display.TimestampZone)
	}
}

// LogLevel returns the configured log level, or warn if it does not parse.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// LogFormatter returns the charmbracelet/log formatter for Log.Format.
func (c *Config) LogFormatter() log.Formatter {
	switch strings.ToLower(c.Log.Format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - MUDLARK_THEME: overrides display.theme
//   - MUDLARK_THEME_DIR: overrides display.theme_dir
//   - MUDLARK_TIMESTAMPS: overrides display.timestamps (1/true/yes)
//   - MUDLARK_WRAP_WIDTH: overrides display.wrap_width
//   - MUDLARK_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("MUDLARK_THEME"); theme != "" {
		c.Display.Theme = theme
	}

	if dir := os.Getenv("MUDLARK_THEME_DIR"); dir != "" {
		c.Display.ThemeDir = dir
	}

	if ts := os.Getenv("MUDLARK_TIMESTAMPS"); ts != "" {
		c.Display.Timestamps = parseBool(ts)
	}

	if width := os.Getenv("MUDLARK_WRAP_WIDTH"); width != "" {
		if n, err := strconv.Atoi(width); err == nil {
			c.Display.WrapWidth = n
		}
	}

	if level := os.Getenv("MUDLARK_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "display.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "display.theme").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"parser.max_buffer",
		"parser.max_depth",
		"display.theme",
		"display.theme_dir",
		"display.watch_themes",
		"display.timestamps",
		"display.timestamp_zone",
		"display.wrap_width",
		"display.no_color",
		"replay.chunk_size",
		"replay.chunks_per_second",
		"log.level",
		"log.format",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
