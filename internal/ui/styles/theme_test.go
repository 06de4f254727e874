// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"errors"
	"sync"
	"testing"
)

func testTheme() *Theme {
	return &Theme{
		Name: "test",
		Palette: map[string]Color{
			"red":   "#FF0000",
			"green": "#00FF00",
			"blue":  "#0000FF",
		},
		Presets:    map[string]string{"speech": "green", "broken": "nope"},
		Categories: map[string]string{"thoughts": "blue"},
		Semantic:   map[string]string{SemanticLink: "red"},
	}
}

// =============================================================================
// RESOLVER TESTS
// =============================================================================

func TestResolver(t *testing.T) {
	th := testTheme()

	tests := []struct {
		name   string
		lookup func(string, *Theme) (Color, bool)
		key    string
		want   Color
		ok     bool
	}{
		{"preset hit", ColorForPreset, "speech", "#00FF00", true},
		{"preset unknown id", ColorForPreset, "whisper", NoColor, false},
		{"preset dangling palette key", ColorForPreset, "broken", NoColor, false},
		{"category hit", CategoryColorFor, "thoughts", "#0000FF", true},
		{"category miss", CategoryColorFor, "death", NoColor, false},
		{"semantic hit", SemanticColorFor, SemanticLink, "#FF0000", true},
		{"semantic miss", SemanticColorFor, SemanticCommand, NoColor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.lookup(tt.key, th)
			if got != tt.want || ok != tt.ok {
				t.Errorf("lookup(%q) = (%q, %v), want (%q, %v)", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolverNilTheme(t *testing.T) {
	var th *Theme
	if _, ok := th.PresetColor("speech"); ok {
		t.Error("nil theme should resolve nothing")
	}
	if _, ok := th.SemanticColor(SemanticText); ok {
		t.Error("nil theme should resolve nothing")
	}
	if _, ok := th.CategoryColor("thoughts"); ok {
		t.Error("nil theme should resolve nothing")
	}
}

func TestResolverConcurrent(t *testing.T) {
	th := Default()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				th.PresetColor("speech")
				th.SemanticColor(SemanticLink)
				th.CategoryColor("thoughts")
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidate(t *testing.T) {
	err := testTheme().Validate()
	if err == nil {
		t.Fatal("Validate() should report dangling preset")
	}

	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error type = %T, want ValidateErrors", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "presets.broken" {
		t.Errorf("errors = %v, want one for presets.broken", verrs)
	}
}

func TestValidateBadPaletteAndName(t *testing.T) {
	th := &Theme{Palette: map[string]Color{"x": "#zzzzzz"}}

	var verrs ValidateErrors
	if !errors.As(th.Validate(), &verrs) {
		t.Fatal("expected ValidateErrors")
	}
	if len(verrs) != 2 {
		t.Errorf("got %d errors (%v), want 2", len(verrs), verrs)
	}
}

func TestClone(t *testing.T) {
	orig := testTheme()
	c := orig.Clone()
	c.Palette["red"] = "#111111"
	c.Presets["speech"] = "red"

	if orig.Palette["red"] != "#FF0000" || orig.Presets["speech"] != "green" {
		t.Error("Clone should not share maps")
	}
}
