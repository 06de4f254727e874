// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is a normalized "#RRGGBB" color. The empty Color means no color.
type Color string

// NoColor is the zero Color.
const NoColor Color = ""

// ErrInvalidColor is returned for strings that are not hex colors.
var ErrInvalidColor = errors.New("invalid hex color")

// ParseColor normalizes "#RGB", "#RRGGBB", "RGB" or "RRGGBB" (any case).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color("#" + strings.ToUpper(hex)), nil
}

// MustParseColor is ParseColor for compile-time constants. It panics on bad input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsSet reports whether c names a color.
func (c Color) IsSet() bool {
	return c != NoColor
}

// RGB returns the components of c. The zero Color returns 0,0,0.
func (c Color) RGB() (r, g, b uint8) {
	if len(c) != 7 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(string(c[1:]), 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// String returns the hex form.
func (c Color) String() string {
	return string(c)
}

// =============================================================================
// BUILT-IN THEMES
// =============================================================================

// Names of the built-in themes.
const (
	ThemeDefault = "default"
	ThemeLight   = "light"
)

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Name: ThemeDefault,
		Palette: map[string]Color{
			"fg":     "#CDD6F4",
			"muted":  "#6C7086",
			"subtle": "#A6ADC8",
			"cyan":   "#22D3EE",
			"blue":   "#89B4FA",
			"purple": "#A78BFA",
			"green":  "#34D399",
			"yellow": "#FBBF24",
			"orange": "#FAB387",
			"red":    "#FB7185",
			"pink":   "#F5C2E7",
			"white":  "#FFFFFF",
		},
		Presets: map[string]string{
			"speech":       "cyan",
			"whisper":      "purple",
			"thought":      "pink",
			"roomName":     "white",
			"roomDesc":     "subtle",
			"bold":         "yellow",
			"watching":     "orange",
			"link":         "blue",
			"selectedLink": "green",
		},
		Categories: map[string]string{
			"thoughts": "pink",
			"speech":   "cyan",
			"death":    "red",
			"logons":   "green",
			"familiar": "purple",
			"combat":   "orange",
		},
		Semantic: map[string]string{
			SemanticText:      "fg",
			SemanticLink:      "blue",
			SemanticCommand:   "green",
			SemanticTimestamp: "muted",
		},
	}
}

// Light returns the built-in light theme.
func Light() *Theme {
	return &Theme{
		Name: ThemeLight,
		Palette: map[string]Color{
			"fg":     "#1F2937",
			"muted":  "#9CA3AF",
			"subtle": "#6B7280",
			"cyan":   "#0891B2",
			"blue":   "#1E66F5",
			"purple": "#7C3AED",
			"green":  "#059669",
			"yellow": "#B45309",
			"orange": "#FE640B",
			"red":    "#E11D48",
			"pink":   "#DB2777",
			"black":  "#000000",
		},
		Presets: map[string]string{
			"speech":       "cyan",
			"whisper":      "purple",
			"thought":      "pink",
			"roomName":     "black",
			"roomDesc":     "subtle",
			"bold":         "yellow",
			"watching":     "orange",
			"link":         "blue",
			"selectedLink": "green",
		},
		Categories: map[string]string{
			"thoughts": "pink",
			"speech":   "cyan",
			"death":    "red",
			"logons":   "green",
			"familiar": "purple",
			"combat":   "orange",
		},
		Semantic: map[string]string{
			SemanticText:      "fg",
			SemanticLink:      "blue",
			SemanticCommand:   "green",
			SemanticTimestamp: "muted",
		},
	}
}

// Builtin returns a fresh copy of the named built-in theme.
func Builtin(name string) (*Theme, bool) {
	switch name {
	case ThemeDefault:
		return Default(), true
	case ThemeLight:
		return Light(), true
	default:
		return nil, false
	}
}

// BuiltinNames lists the built-in theme names.
func BuiltinNames() []string {
	return []string{ThemeDefault, ThemeLight}
}
