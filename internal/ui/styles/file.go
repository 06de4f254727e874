// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mudlark/internal/util"
)

// ThemeFileExt is the extension of theme files in a theme directory.
const ThemeFileExt = ".toml"

// DecodeTheme reads a TOML theme, normalizes its palette, and validates it.
func DecodeTheme(r io.Reader) (*Theme, error) {
	var th Theme
	if _, err := toml.NewDecoder(r).Decode(&th); err != nil {
		return nil, fmt.Errorf("failed to decode theme: %w", err)
	}
	if err := th.normalize(); err != nil {
		return nil, err
	}
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme %q: %w", th.Name, err)
	}
	return &th, nil
}

// LoadTheme loads a theme file. A file without a name takes its base name.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var th Theme
	if _, err := toml.Decode(string(data), &th); err != nil {
		return nil, fmt.Errorf("failed to decode theme file %s: %w", path, err)
	}
	if th.Name == "" {
		th.Name = strings.TrimSuffix(filepath.Base(path), ThemeFileExt)
	}
	if err := th.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme %s: %w", path, err)
	}
	return &th, nil
}

// SaveTheme writes th as TOML.
func SaveTheme(th *Theme, path string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# mudlark theme %q\n\n", th.Name)
	if err := toml.NewEncoder(&buf).Encode(th); err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}
	return nil
}

// normalize rewrites palette values into canonical "#RRGGBB" form and
// makes sure every table is non-nil.
func (t *Theme) normalize() error {
	var errs ValidateErrors
	for key, raw := range t.Palette {
		c, err := ParseColor(string(raw))
		if err != nil {
			errs = append(errs, ValidationError{Field: "palette." + key, Message: err.Error()})
			continue
		}
		t.Palette[key] = c
	}
	if t.Palette == nil {
		t.Palette = map[string]Color{}
	}
	if t.Presets == nil {
		t.Presets = map[string]string{}
	}
	if t.Categories == nil {
		t.Categories = map[string]string{}
	}
	if t.Semantic == nil {
		t.Semantic = map[string]string{}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
