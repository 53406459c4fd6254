// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemplateType distinguishes full-page templates from reusable parts.
type TemplateType string

const (
	TemplateTypeTemplate TemplateType = "wp_template"
	TemplateTypePart     TemplateType = "wp_template_part"
)

// Valid reports whether t is one of the two recognized template types.
func (t TemplateType) Valid() bool {
	return t == TemplateTypeTemplate || t == TemplateTypePart
}

// RESTBase returns the collection path segment served for this type.
func (t TemplateType) RESTBase() string {
	if t == TemplateTypePart {
		return "template-parts"
	}
	return "templates"
}

// Origin classifies who supplied a template. Legacy customizations carry
// an empty origin and are classified from their source instead.
type Origin string

const (
	OriginNone   Origin = ""
	OriginTheme  Origin = "theme"
	OriginPlugin Origin = "plugin"
	OriginSite   Origin = "site"
	OriginUser   Origin = "user"
)

// Source is the raw provenance flag recorded for a template.
type Source string

const (
	SourceTheme  Source = "theme"
	SourceCustom Source = "custom"
	SourcePlugin Source = "plugin"
)

// Status is the publishing state of a template.
type Status string

const (
	StatusPublish Status = "publish"
	StatusTrash   Status = "trash"
)

// Template part areas used by themes and plugins.
const (
	AreaHeader        = "header"
	AreaFooter        = "footer"
	AreaUncategorized = "uncategorized"
)

// IDSeparator joins the namespace (theme or plugin) and slug in template
// ids and registry names.
const IDSeparator = "//"

// Template is one block template or template part, regardless of whether
// it came from a theme file, a database customization, or the plugin
// registry. Values returned by the registry are shared; treat them as
// read-only.
type Template struct {
	ID           string       `json:"id"`
	WPID         *uuid.UUID   `json:"wp_id,omitempty"`
	Name         string       `json:"name,omitempty"`
	Theme        string       `json:"theme"`
	Plugin       string       `json:"plugin,omitempty"`
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Content      string       `json:"content"`
	Type         TemplateType `json:"type"`
	Source       Source       `json:"source"`
	Origin       Origin       `json:"origin"`
	Status       Status       `json:"status"`
	Area         string       `json:"area,omitempty"`
	PostTypes    []string     `json:"post_types,omitempty"`
	HasThemeFile bool         `json:"has_theme_file"`
	IsCustom     bool         `json:"is_custom"`
	Author       *uuid.UUID   `json:"author,omitempty"`
	Modified     time.Time    `json:"modified"`
}

// Clone returns a copy of t that shares no slices or pointers with it.
func (t *Template) Clone() *Template {
	c := *t
	c.PostTypes = slices.Clone(t.PostTypes)
	if t.WPID != nil {
		id := *t.WPID
		c.WPID = &id
	}
	if t.Author != nil {
		id := *t.Author
		c.Author = &id
	}
	return &c
}

// SupportsPostType reports whether the template lists postType.
func (t *Template) SupportsPostType(postType string) bool {
	return slices.Contains(t.PostTypes, postType)
}

// TemplateQuery filters template lookups. Zero-valued fields impose no
// constraint.
type TemplateQuery struct {
	SlugIn    []string
	SlugNotIn []string
	Area      string
	PostType  string
	WPID      uuid.UUID
}

// Matches applies the slug, area and post type filters to t. Area is only
// compared for template parts. WPID is left to the caller because only
// persisted templates carry one.
func (q TemplateQuery) Matches(t *Template) bool {
	if len(q.SlugIn) > 0 && !slices.Contains(q.SlugIn, t.Slug) {
		return false
	}
	if len(q.SlugNotIn) > 0 && slices.Contains(q.SlugNotIn, t.Slug) {
		return false
	}
	if q.Area != "" && t.Type == TemplateTypePart && t.Area != q.Area {
		return false
	}
	if q.PostType != "" && !t.SupportsPostType(q.PostType) {
		return false
	}
	return true
}

// BuildID joins a namespace and slug into a template id.
func BuildID(namespace, slug string) string {
	return namespace + IDSeparator + slug
}

// SplitID splits a template id on the first separator. ok is false when
// the id carries no separator.
func SplitID(id string) (namespace, slug string, ok bool) {
	return strings.Cut(id, IDSeparator)
}
