// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package registry holds block templates declared by plugins. Templates
// are registered once during bootstrap and then read while serving
// requests. The registry is append-only: entries live for the lifetime of
// the process and are re-registered on every start.
package registry

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"blockpress/internal/models"
)

// namePattern is the namespaced form every registered name must match.
var namePattern = regexp.MustCompile(`^[a-z0-9-]+//[a-z0-9-]+$`)

// Options describes a template to build at registration time.
type Options struct {
	Slug        string
	Path        string // file holding the template markup; wins over Content
	Content     string
	Title       string
	Description string
	PostTypes   []string
	Area        string // template parts only
	Plugin      string
}

// bucket keeps the templates of one type in registration order.
type bucket struct {
	order  []string
	byName map[string]*models.Template
}

// Registry stores plugin-registered templates keyed by type and name.
type Registry struct {
	mu         sync.RWMutex
	stylesheet string
	buckets    map[models.TemplateType]*bucket
}

// New creates an empty registry. stylesheet is the active theme, used to
// build the ids of option-built templates.
func New(stylesheet string) *Registry {
	return &Registry{
		stylesheet: stylesheet,
		buckets: map[models.TemplateType]*bucket{
			models.TemplateTypeTemplate: {byName: make(map[string]*models.Template)},
			models.TemplateTypePart:     {byName: make(map[string]*models.Template)},
		},
	}
}

// Register validates name and type, builds a template from opts, and
// stores it. On failure the registry is left untouched and a
// *RegistrationError is returned.
func (r *Registry) Register(name string, tmplType models.TemplateType, opts Options) (*models.Template, error) {
	return r.register(name, tmplType, nil, opts)
}

// RegisterTemplate stores a pre-built template under its own Name. A nil
// template is rejected like a non-string name.
func (r *Registry) RegisterTemplate(tmpl *models.Template, tmplType models.TemplateType) (*models.Template, error) {
	if tmpl == nil {
		return nil, r.reject("", tmplType, ErrNameNotString)
	}
	return r.register(tmpl.Name, tmplType, tmpl, Options{})
}

func (r *Registry) register(name string, tmplType models.TemplateType, tmpl *models.Template, opts Options) (*models.Template, error) {
	if !tmplType.Valid() {
		return nil, r.reject(name, tmplType, ErrInvalidType)
	}
	if strings.ToLower(name) != name {
		return nil, r.reject(name, tmplType, ErrUppercaseName)
	}
	if !namePattern.MatchString(name) {
		return nil, r.reject(name, tmplType, ErrMissingNamespace)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.buckets[tmplType]
	if _, exists := b.byName[name]; exists {
		return nil, r.reject(name, tmplType, ErrAlreadyRegistered)
	}

	if tmpl == nil {
		built, err := r.build(name, tmplType, opts)
		if err != nil {
			return nil, r.reject(name, tmplType, fmt.Errorf("%w: %v", ErrTemplateFile, err))
		}
		tmpl = built
	}

	b.byName[name] = tmpl
	b.order = append(b.order, name)

	slog.Debug("block template registered", "type", tmplType, "name", name, "slug", tmpl.Slug)
	return tmpl, nil
}

// build fills in the defaults for a template described only by options.
func (r *Registry) build(name string, tmplType models.TemplateType, opts Options) (*models.Template, error) {
	content := opts.Content
	if opts.Path != "" {
		raw, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, err
		}
		content = string(raw)
	}

	t := &models.Template{
		ID:           models.BuildID(r.stylesheet, opts.Slug),
		Name:         name,
		Theme:        r.stylesheet,
		Plugin:       opts.Plugin,
		Slug:         opts.Slug,
		Title:        opts.Title,
		Description:  opts.Description,
		Content:      content,
		Type:         tmplType,
		Source:       models.SourcePlugin,
		Origin:       models.OriginPlugin,
		Status:       models.StatusPublish,
		PostTypes:    slices.Clone(opts.PostTypes),
		HasThemeFile: true,
		IsCustom:     false,
	}
	if tmplType == models.TemplateTypePart {
		t.Area = opts.Area
	}
	return t, nil
}

// reject logs the developer diagnostic and wraps the failure.
func (r *Registry) reject(name string, tmplType models.TemplateType, err error) error {
	slog.Warn("block template registration rejected",
		"type", tmplType,
		"name", name,
		"reason", err,
	)
	return &RegistrationError{Name: name, Type: tmplType, Err: err}
}

// GetRegistered returns the template registered under name, or nil.
func (r *Registry) GetRegistered(tmplType models.TemplateType, name string) *models.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.lookup("get_registered", tmplType)
	if !ok {
		return nil
	}
	return b.byName[name]
}

// IsRegistered reports whether name is registered for tmplType.
func (r *Registry) IsRegistered(tmplType models.TemplateType, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.lookup("is_registered", tmplType)
	if !ok {
		return false
	}
	_, found := b.byName[name]
	return found
}

// GetBySlug returns the first template of tmplType, in registration order,
// whose slug equals slug. Returns nil when none match.
func (r *Registry) GetBySlug(tmplType models.TemplateType, slug string) *models.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.lookup("get_by_slug", tmplType)
	if !ok {
		return nil
	}
	for _, name := range b.order {
		if t := b.byName[name]; t.Slug == slug {
			return t
		}
	}
	return nil
}

// GetAllRegistered returns every template of tmplType in registration
// order. The slice is a fresh copy; the templates are shared.
func (r *Registry) GetAllRegistered(tmplType models.TemplateType) []*models.Template {
	return r.GetByQuery(tmplType, models.TemplateQuery{})
}

// GetByQuery returns the templates of tmplType matching every filter in q.
// The area filter only applies to template parts. WPID is ignored since
// registered templates are never persisted.
func (r *Registry) GetByQuery(tmplType models.TemplateType, q models.TemplateQuery) []*models.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.lookup("get_by_query", tmplType)
	if !ok {
		return nil
	}

	result := make([]*models.Template, 0, len(b.order))
	for _, name := range b.order {
		t := b.byName[name]
		if q.Matches(t) {
			result = append(result, t)
		}
	}
	return result
}

// Count returns the number of templates registered for tmplType.
func (r *Registry) Count(tmplType models.TemplateType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if b, ok := r.lookup("count", tmplType); ok {
		return len(b.order)
	}
	return 0
}

// lookup returns the templates of tmplType. A type the registry never
// holds is a caller mistake and is logged like a rejected registration.
// Callers hold r.mu.
func (r *Registry) lookup(op string, tmplType models.TemplateType) (*bucket, bool) {
	b, ok := r.buckets[tmplType]
	if !ok {
		slog.Warn("block template lookup rejected",
			"op", op,
			"type", tmplType,
			"reason", ErrInvalidType,
		)
	}
	return b, ok
}

// Stylesheet returns the theme the registry builds template ids against.
func (r *Registry) Stylesheet() string {
	return r.stylesheet
}
