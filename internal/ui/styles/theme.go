// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"sort"
	"strings"
)

// Semantic names the renderer looks up.
const (
	SemanticText      = "text"
	SemanticLink      = "link"
	SemanticCommand   = "command"
	SemanticTimestamp = "timestamp"
)

// Theme maps logical style names to palette keys, and palette keys to colors.
// A Theme must not be modified after it is handed to a renderer.
type Theme struct {
	Name       string            `toml:"name"`
	Palette    map[string]Color  `toml:"palette"`
	Presets    map[string]string `toml:"presets"`
	Categories map[string]string `toml:"categories"`
	Semantic   map[string]string `toml:"semantic"`
}

// =============================================================================
// COLOR RESOLUTION
// =============================================================================

// PresetColor resolves a server preset id (`<preset id="...">`).
func (t *Theme) PresetColor(id string) (Color, bool) {
	if t == nil {
		return NoColor, false
	}
	return t.resolve(t.Presets, id)
}

// SemanticColor resolves a client-side role such as SemanticLink.
func (t *Theme) SemanticColor(name string) (Color, bool) {
	if t == nil {
		return NoColor, false
	}
	return t.resolve(t.Semantic, name)
}

// CategoryColor resolves a stream/window category id.
func (t *Theme) CategoryColor(id string) (Color, bool) {
	if t == nil {
		return NoColor, false
	}
	return t.resolve(t.Categories, id)
}

func (t *Theme) resolve(table map[string]string, name string) (Color, bool) {
	key, ok := table[name]
	if !ok {
		return NoColor, false
	}
	c, ok := t.Palette[key]
	if !ok || !c.IsSet() {
		return NoColor, false
	}
	return c, true
}

// ColorForPreset is the package-level form of Theme.PresetColor.
func ColorForPreset(id string, t *Theme) (Color, bool) {
	return t.PresetColor(id)
}

// SemanticColorFor is the package-level form of Theme.SemanticColor.
func SemanticColorFor(name string, t *Theme) (Color, bool) {
	return t.SemanticColor(name)
}

// CategoryColorFor is the package-level form of Theme.CategoryColor.
func CategoryColorFor(id string, t *Theme) (Color, bool) {
	return t.CategoryColor(id)
}

// =============================================================================
// COPY / VALIDATION
// =============================================================================

// Clone returns a deep copy that can be modified freely.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	c := &Theme{
		Name:       t.Name,
		Palette:    make(map[string]Color, len(t.Palette)),
		Presets:    cloneTable(t.Presets),
		Categories: cloneTable(t.Categories),
		Semantic:   cloneTable(t.Semantic),
	}
	for k, v := range t.Palette {
		c.Palette[k] = v
	}
	return c
}

func cloneTable(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ValidationError describes one problem with a theme.
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks palette values and that every table entry names a palette key.
func (t *Theme) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "must not be empty"})
	}
	for _, key := range sortedKeys(t.Palette) {
		if _, err := ParseColor(string(t.Palette[key])); err != nil {
			errs = append(errs, ValidationError{
				Field:   "palette." + key,
				Message: err.Error(),
			})
		}
	}

	check := func(section string, table map[string]string) {
		for _, name := range sortedKeys(table) {
			if _, ok := t.Palette[table[name]]; !ok {
				errs = append(errs, ValidationError{
					Field:   section + "." + name,
					Message: fmt.Sprintf("unknown palette key %q", table[name]),
				})
			}
		}
	}
	check("presets", t.Presets)
	check("categories", t.Categories)
	check("semantic", t.Semantic)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
