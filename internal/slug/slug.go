// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives template slugs from titles.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches anything that cannot appear in a template slug.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	// separators collapses whitespace and hyphen runs into one hyphen.
	separators = regexp.MustCompile(`[\s-]+`)
)

// maxUniqueAttempts bounds the numeric suffixes tried by Unique.
const maxUniqueAttempts = 100

// Generate creates a template slug from the given title. Accents are
// folded to their base letters.
// Example: "Café Menu, 2026" → "cafe-menu-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(fold(s)))
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-_")
}

// fold strips combining marks after canonical decomposition.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Unique returns base, or base with the first numeric suffix ("-2", "-3",
// ...) for which taken reports false.
func Unique(ctx context.Context, base string, taken func(ctx context.Context, slug string) (bool, error)) (string, error) {
	candidate := base
	for i := 2; i <= maxUniqueAttempts+1; i++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxUniqueAttempts)
}
