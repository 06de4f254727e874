// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"errors"
	"testing"
)

// =============================================================================
// COLOR PARSING TESTS
// =============================================================================

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8800", "#FF8800", false},
		{"FF8800", "#FF8800", false},
		{"#f80", "#FF8800", false},
		{"  #abc  ", "#AABBCC", false},
		{"#12345", "", true},
		{"#gggggg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Fatalf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorRGB(t *testing.T) {
	r, g, b := Color("#102030").RGB()
	if r != 0x10 || g != 0x20 || b != 0x30 {
		t.Errorf("RGB() = %d,%d,%d", r, g, b)
	}
	r, g, b = NoColor.RGB()
	if r != 0 || g != 0 || b != 0 {
		t.Error("NoColor.RGB() should be zero")
	}
}

// =============================================================================
// BUILT-IN THEME TESTS
// =============================================================================

func TestBuiltinThemesValidate(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			th, ok := Builtin(name)
			if !ok {
				t.Fatalf("Builtin(%q) missing", name)
			}
			if th.Name != name {
				t.Errorf("Name = %q, want %q", th.Name, name)
			}
			if err := th.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
			for _, sem := range []string{SemanticText, SemanticLink, SemanticCommand, SemanticTimestamp} {
				if _, ok := th.SemanticColor(sem); !ok {
					t.Errorf("semantic %q not resolvable", sem)
				}
			}
		})
	}

	if _, ok := Builtin("mystery"); ok {
		t.Error("Builtin(mystery) should not exist")
	}
}

func TestBuiltinReturnsFreshCopy(t *testing.T) {
	first := Default()
	first.Palette["fg"] = "#000000"

	if Default().Palette["fg"] == "#000000" {
		t.Error("Default() should not share maps between calls")
	}
}
