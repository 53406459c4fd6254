package slug

import (
	"context"
	"errors"
	"testing"
)

// TestGenerate exercises the slug generator with typical titles, special
// characters, unicode and whitespace edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Landing Page 2026", want: "landing-page-2026"},
		{name: "already a slug", input: "single-product", want: "single-product"},
		{name: "underscore kept", input: "single_product", want: "single_product"},

		// --- Special characters ---
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand and at sign", input: "Rock & Roll @ the Arena", want: "rock-roll-the-arena"},
		{name: "parentheses and brackets", input: "Version (2.0) [Beta]", want: "version-20-beta"},

		// --- Unicode ---
		{name: "accents folded", input: "Café Menu, 2026", want: "cafe-menu-2026"},
		{name: "french accents folded", input: "Crème Brûlée", want: "creme-brulee"},
		{name: "only unicode chars", input: "日本語", want: ""},

		// --- Whitespace and hyphens ---
		{name: "tabs and newlines", input: "Tabs\tand\nnewlines", want: "tabs-and-newlines"},
		{name: "surrounding hyphens", input: "--leading and trailing--", want: "leading-and-trailing"},
		{name: "hyphens and spaces mixed", input: "a - b -- c", want: "a-b-c"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"index", "single-post", "page-about", "taxonomy-product_cat", "404"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"landing": true, "landing-2": true}
	lookup := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	tests := []struct {
		base string
		want string
	}{
		{"about", "about"},
		{"landing", "landing-3"},
	}
	for _, tt := range tests {
		got, err := Unique(context.Background(), tt.base, lookup)
		if err != nil {
			t.Fatalf("Unique(%q): %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("Unique(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestUniqueErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Errorf("lookup error: got %v, want wrapped boom", err)
	}

	_, err = Unique(context.Background(), "x", func(context.Context, string) (bool, error) { return true, nil })
	if err == nil {
		t.Error("exhausted suffixes: expected error")
	}
}
