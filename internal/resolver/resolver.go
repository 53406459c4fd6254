// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolver answers template lookups by merging three sources: user
// customizations stored in the database, the active theme's files, and
// templates registered by plugins. Customizations win over theme files,
// which win over plugin templates with the same slug.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"blockpress/internal/models"
	"blockpress/internal/registry"
)

const tracerName = "blockpress/internal/resolver"

// ThemeFiles looks up templates shipped as files by the active theme.
type ThemeFiles interface {
	Stylesheet() string
	GetByIDAndType(id string, typ models.TemplateType) *models.Template
	Query(typ models.TemplateType, q models.TemplateQuery) []*models.Template
	HasFile(typ models.TemplateType, slug string) bool
	Hierarchy(slug string, isCustom bool, prefix string) []string
}

// CustomTemplates looks up customizations persisted by users. Lookups
// return nil without error when nothing is stored.
type CustomTemplates interface {
	FindBySlug(ctx context.Context, typ models.TemplateType, theme, slug string) (*models.Template, error)
	Query(ctx context.Context, typ models.TemplateType, theme string, q models.TemplateQuery) ([]*models.Template, error)
}

// Resolver merges the template sources.
type Resolver struct {
	reg       *registry.Registry
	theme     ThemeFiles
	custom    CustomTemplates
	namer     Namer
	pluginKey PluginKeyFunc
	tracer    trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPluginKey replaces the plugin key derivation used for author text.
func WithPluginKey(fn PluginKeyFunc) Option {
	return func(r *Resolver) {
		r.pluginKey = fn
	}
}

// New creates a Resolver. Spans are recorded with the global tracer
// provider.
func New(reg *registry.Registry, theme ThemeFiles, custom CustomTemplates, namer Namer, opts ...Option) *Resolver {
	r := &Resolver{
		reg:       reg,
		theme:     theme,
		custom:    custom,
		namer:     namer,
		pluginKey: LegacyPluginKey,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stylesheet returns the active theme.
func (r *Resolver) Stylesheet() string {
	return r.theme.Stylesheet()
}

// Get returns the template with the given "namespace//slug" id. A source of
// theme reads the theme file only and plugin reads the registry by slug,
// ignoring the namespace. Any other source looks up a customization first,
// then the theme file, then a plugin template of the active theme.
func (r *Resolver) Get(ctx context.Context, id string, typ models.TemplateType, source models.Source) (_ *models.Template, err error) {
	ctx, span := r.start(ctx, "resolver.Get",
		attribute.String("template.id", id),
		attribute.String("template.type", string(typ)),
		attribute.String("template.source", string(source)),
	)
	defer func() { end(span, err) }()

	ns, slug, ok := models.SplitID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	switch source {
	case models.SourceTheme:
		if t := r.theme.GetByIDAndType(id, typ); t != nil {
			return t, nil
		}
		return nil, ErrNotFound
	case models.SourcePlugin:
		if t := r.reg.GetBySlug(typ, slug); t != nil {
			return t.Clone(), nil
		}
		return nil, ErrNotFound
	}

	custom, err := r.custom.FindBySlug(ctx, typ, ns, slug)
	if err != nil {
		return nil, fmt.Errorf("find customization: %w", err)
	}
	if custom != nil {
		return r.annotate(custom), nil
	}

	if t := r.theme.GetByIDAndType(id, typ); t != nil {
		return t, nil
	}
	if ns == r.theme.Stylesheet() {
		if t := r.reg.GetBySlug(typ, slug); t != nil {
			return t.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// List returns every template of typ matching q: customizations first,
// then theme files that were not customized, then plugin templates whose
// slug is not taken yet. A WPID filter only matches customizations.
func (r *Resolver) List(ctx context.Context, q models.TemplateQuery, typ models.TemplateType) (_ []*models.Template, err error) {
	ctx, span := r.start(ctx, "resolver.List", attribute.String("template.type", string(typ)))
	defer func() { end(span, err) }()

	stylesheet := r.theme.Stylesheet()
	custom, err := r.custom.Query(ctx, typ, stylesheet, q)
	if err != nil {
		return nil, fmt.Errorf("query customizations: %w", err)
	}

	templates := make([]*models.Template, 0, len(custom))
	seen := make(map[string]bool, len(custom))
	for _, t := range custom {
		templates = append(templates, r.annotate(t))
		seen[t.Slug] = true
	}

	if q.WPID != uuid.Nil {
		span.SetAttributes(attribute.Int("template.count", len(templates)))
		return templates, nil
	}

	for _, t := range r.theme.Query(typ, q) {
		if seen[t.Slug] {
			continue
		}
		templates = append(templates, t)
		seen[t.Slug] = true
	}

	for _, t := range r.reg.GetByQuery(typ, q) {
		if seen[t.Slug] {
			continue
		}
		templates = append(templates, t.Clone())
		seen[t.Slug] = true
	}

	span.SetAttributes(attribute.Int("template.count", len(templates)))
	return templates, nil
}

// annotate fills in what a stored customization cannot know by itself:
// whether the theme ships a file for it, and whether it customizes a plugin
// template.
func (r *Resolver) annotate(t *models.Template) *models.Template {
	t.HasThemeFile = t.Theme == r.theme.Stylesheet() && r.theme.HasFile(t.Type, t.Slug)
	if t.HasThemeFile {
		return t
	}
	if p := r.reg.GetBySlug(t.Type, t.Slug); p != nil {
		t.Origin = models.OriginPlugin
		t.Plugin = p.Plugin
	}
	return t
}

// Resolve returns the first template in hierarchy order that any source
// provides.
func (r *Resolver) Resolve(ctx context.Context, hierarchy []string, typ models.TemplateType) (_ *models.Template, err error) {
	ctx, span := r.start(ctx, "resolver.Resolve", attribute.StringSlice("template.hierarchy", hierarchy))
	defer func() { end(span, err) }()

	bySlug, err := r.candidates(ctx, hierarchy, typ)
	if err != nil {
		return nil, err
	}
	for _, slug := range hierarchy {
		if t, ok := bySlug[slug]; ok {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// Fallback walks the template hierarchy for slug, most specific first, and
// returns the first template with content. When every candidate that
// exists is empty, the last one found is returned.
func (r *Resolver) Fallback(ctx context.Context, slug string, isCustom bool, prefix string, typ models.TemplateType) (_ *models.Template, err error) {
	ctx, span := r.start(ctx, "resolver.Fallback",
		attribute.String("template.slug", slug),
		attribute.Bool("template.is_custom", isCustom),
		attribute.String("template.prefix", prefix),
	)
	defer func() { end(span, err) }()

	hierarchy := r.theme.Hierarchy(slug, isCustom, prefix)
	bySlug, err := r.candidates(ctx, hierarchy, typ)
	if err != nil {
		return nil, err
	}

	var last *models.Template
	for len(hierarchy) > 0 {
		t, ok := bySlug[hierarchy[0]]
		hierarchy = hierarchy[1:]
		if !ok {
			continue
		}
		last = t
		if t.Content != "" {
			break
		}
	}
	if last == nil {
		return nil, ErrNotFound
	}
	span.SetAttributes(attribute.String("template.resolved", last.Slug))
	return last, nil
}

// candidates lists the merged templates for slugs, keyed by slug.
func (r *Resolver) candidates(ctx context.Context, slugs []string, typ models.TemplateType) (map[string]*models.Template, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	templates, err := r.List(ctx, models.TemplateQuery{SlugIn: slugs}, typ)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]*models.Template, len(templates))
	for _, t := range templates {
		if _, ok := bySlug[t.Slug]; !ok {
			bySlug[t.Slug] = t
		}
	}
	return bySlug, nil
}

// CheckTemplate reports whether a post of postType may use the template
// slug. The empty slug and the post's current template are always allowed.
func (r *Resolver) CheckTemplate(ctx context.Context, postType, template, current string) (err error) {
	ctx, span := r.start(ctx, "resolver.CheckTemplate",
		attribute.String("post.type", postType),
		attribute.String("template.slug", template),
	)
	defer func() { end(span, err) }()

	if template == "" || template == current {
		return nil
	}

	allowed, err := r.List(ctx, models.TemplateQuery{PostType: postType}, models.TemplateTypeTemplate)
	if err != nil {
		return err
	}
	slugs := make([]string, 0, len(allowed))
	for _, t := range allowed {
		if t.Slug == template {
			return nil
		}
		slugs = append(slugs, t.Slug)
	}

	return &InvalidParamError{
		Param:   "template",
		Message: fmt.Sprintf("%s is not one of %s.", template, strings.Join(slugs, ", ")),
	}
}

// Locate returns the first plugin template matching one of the candidate
// template files, such as "single-product.php", or nil.
func (r *Resolver) Locate(candidates []string) *models.Template {
	for _, c := range candidates {
		slug := strings.TrimSuffix(c, ".php")
		if t := r.reg.GetBySlug(models.TemplateTypeTemplate, slug); t != nil {
			return t.Clone()
		}
	}
	return nil
}

func (r *Resolver) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
