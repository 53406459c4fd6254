// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"blockpress/internal/hierarchy"
	"blockpress/internal/models"
)

// ErrStylesheetChanged is returned by Reload when the theme directory now
// holds a different theme. Template ids and plugin registrations are built
// against the stylesheet found at Open, so switching themes needs a restart.
var ErrStylesheetChanged = errors.New("theme stylesheet changed")

// Source serves theme-file templates for the active theme and can reload
// it when files change. Returned templates are copies.
type Source struct {
	dir  string
	hier hierarchy.Hierarchy

	mu      sync.RWMutex
	current *Theme
}

// Open loads the theme in dir and returns a Source serving it.
func Open(dir string, hier hierarchy.Hierarchy) (*Source, error) {
	t, err := Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}

	slog.Info("theme loaded",
		"stylesheet", t.Stylesheet(),
		"templates", len(t.Templates(models.TemplateTypeTemplate)),
		"parts", len(t.Templates(models.TemplateTypePart)),
	)
	return &Source{dir: dir, hier: hier, current: t}, nil
}

// Reload re-reads the theme directory. The previous theme keeps serving
// if loading fails or the stylesheet no longer matches.
func (s *Source) Reload() error {
	t, err := Load(s.dir)
	if err != nil {
		return fmt.Errorf("reload theme: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev := s.current.Stylesheet(); t.Stylesheet() != prev {
		return fmt.Errorf("reload theme: %w: %s is now %s", ErrStylesheetChanged, prev, t.Stylesheet())
	}
	s.current = t

	slog.Info("theme reloaded", "stylesheet", t.Stylesheet())
	return nil
}

func (s *Source) theme() *Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Stylesheet returns the active theme's identifier.
func (s *Source) Stylesheet() string {
	return s.theme().Stylesheet()
}

// DisplayName returns the human-readable name of stylesheet, or "" when
// it is not the active theme or declares no name.
func (s *Source) DisplayName(stylesheet string) string {
	t := s.theme()
	if t.Stylesheet() != stylesheet {
		return ""
	}
	return t.Manifest.Name
}

// GetByIDAndType returns the theme file template with the given id, or
// nil when the id names another theme or no such file exists.
func (s *Source) GetByIDAndType(id string, typ models.TemplateType) *models.Template {
	stylesheet, slug, ok := models.SplitID(id)
	if !ok {
		return nil
	}
	t := s.theme()
	if stylesheet != t.Stylesheet() {
		return nil
	}
	for _, tmpl := range t.Templates(typ) {
		if tmpl.Slug == slug {
			return tmpl.Clone()
		}
	}
	return nil
}

// Query returns copies of the theme templates of typ matching q. Theme
// files have no database id, so a WPID filter matches nothing.
func (s *Source) Query(typ models.TemplateType, q models.TemplateQuery) []*models.Template {
	if q.WPID != uuid.Nil {
		return nil
	}

	var result []*models.Template
	for _, tmpl := range s.theme().Templates(typ) {
		if q.Matches(tmpl) {
			result = append(result, tmpl.Clone())
		}
	}
	return result
}

// HasFile reports whether the active theme ships a file for slug.
func (s *Source) HasFile(typ models.TemplateType, slug string) bool {
	for _, tmpl := range s.theme().Templates(typ) {
		if tmpl.Slug == slug {
			return true
		}
	}
	return false
}

// Hierarchy returns the fallback candidates for slug.
func (s *Source) Hierarchy(slug string, isCustom bool, prefix string) []string {
	return s.hier.For(slug, isCustom, prefix)
}
