// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy expands a template slug into its fallback candidates,
// most specific first, ending in "index".
package hierarchy

import (
	"regexp"
	"strings"
)

var (
	// prefixedArchive matches slugs like "category-news" or "page-about".
	prefixedArchive = regexp.MustCompile(`^(author|category|archive|tag|page)-.+$`)
	// prefixedObject matches "single-<post type>..." and "taxonomy-<tax>...".
	prefixedObject = regexp.MustCompile(`^(taxonomy|single)-(.+)$`)
)

// Hierarchy knows the post types and taxonomies needed to split
// "single-*" and "taxonomy-*" slugs. Order matters: the first registered
// name that prefixes the remainder wins.
type Hierarchy struct {
	PostTypes  []string
	Taxonomies []string
}

// Default returns a hierarchy for the built-in post types and taxonomies.
func Default() Hierarchy {
	return Hierarchy{
		PostTypes:  []string{"post", "page", "attachment"},
		Taxonomies: []string{"category", "post_tag", "post_format"},
	}
}

// For returns the candidate slugs for slug. isCustom marks a user-created
// page template; prefix is the template prefix sent by the editor, e.g.
// "taxonomy-product_cat" for "taxonomy-product_cat-shoes".
func (h Hierarchy) For(slug string, isCustom bool, prefix string) []string {
	if slug == "index" {
		return []string{"index"}
	}
	if isCustom {
		return []string{"page", "singular", "index"}
	}
	if slug == "front-page" {
		return []string{"front-page", "home", "index"}
	}

	candidates := []string{slug}

	if prefix != "" {
		kind, _, _ := strings.Cut(prefix, "-")
		if prefix != slug && prefix != kind {
			candidates = append(candidates, prefix)
		}
		if slug != kind {
			candidates = append(candidates, kind)
		}
	} else if m := prefixedArchive.FindStringSubmatch(slug); m != nil {
		candidates = append(candidates, m[1])
	} else if m := prefixedObject.FindStringSubmatch(slug); m != nil {
		kind, remaining := m[1], m[2]
		items := h.Taxonomies
		if kind == "single" {
			items = h.PostTypes
		}
		for _, item := range items {
			if !strings.HasPrefix(remaining, item) {
				continue
			}
			if remaining == item {
				candidates = append(candidates, kind)
				break
			}
			if len(remaining) > len(item)+1 {
				candidates = append(candidates, kind+"-"+item, kind)
				break
			}
		}
	}

	if strings.HasPrefix(slug, "author") ||
		strings.HasPrefix(slug, "taxonomy") ||
		strings.HasPrefix(slug, "category") ||
		strings.HasPrefix(slug, "tag") ||
		slug == "date" {
		candidates = append(candidates, "archive")
	}
	if slug == "attachment" {
		candidates = append(candidates, "single")
	}
	if strings.HasPrefix(slug, "single") ||
		strings.HasPrefix(slug, "page") ||
		slug == "attachment" {
		candidates = append(candidates, "singular")
	}

	return append(candidates, "index")
}
