// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blockpress/internal/cache"
	"blockpress/internal/models"
	"blockpress/internal/resolver"
	"blockpress/internal/slug"
)

// TemplateStore persists template customizations.
type TemplateStore interface {
	FindBySlug(ctx context.Context, typ models.TemplateType, theme, slug string) (*models.Template, error)
	Create(ctx context.Context, t *models.Template) (*models.Template, error)
	Update(ctx context.Context, t *models.Template) error
	Trash(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResponseCache caches encoded list responses.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// Templates serves one template type's REST collection.
type Templates struct {
	resolver *resolver.Resolver
	store    TemplateStore
	cache    ResponseCache
	typ      models.TemplateType
}

// NewTemplates creates the handlers for typ. cache may be nil.
func NewTemplates(res *resolver.Resolver, store TemplateStore, cache ResponseCache, typ models.TemplateType) *Templates {
	return &Templates{resolver: res, store: store, cache: cache, typ: typ}
}

// Routes returns the collection router. Template ids contain "//", so
// single items are matched with a wildcard.
func (h *Templates) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/lookup", h.Lookup)
	r.Get("/*", h.Get)
	r.Post("/*", h.Update)
	r.Put("/*", h.Update)
	r.Delete("/*", h.Delete)
	return r
}

// templatePayload is the JSON body of create and update requests. Absent
// fields keep their current value on update.
type templatePayload struct {
	Slug        *string    `json:"slug"`
	Theme       *string    `json:"theme"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Content     *string    `json:"content"`
	Status      *string    `json:"status"`
	Area        *string    `json:"area"`
	PostTypes   []string   `json:"post_types"`
	Author      *uuid.UUID `json:"author"`
}

// List returns every template of the collection's type.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.TemplateQuery{
		Area:     q.Get("area"),
		PostType: q.Get("post_type"),
	}
	if raw := q.Get("wp_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeInvalidParam(w, "wp_id", "wp_id is not a valid id.")
			return
		}
		query.WPID = id
	}

	key := cache.RequestKey(r.URL.Path, q)
	if h.cache != nil {
		if body, ok := h.cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("X-Cache", "HIT")
			w.Write(body)
			return
		}
	}

	templates, err := h.resolver.List(r.Context(), query, h.typ)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	fields := requestFields(r)
	items := make([]resolver.Response, 0, len(templates))
	for _, t := range templates {
		items = append(items, h.resolver.Prepare(r.Context(), t, fields))
	}

	body, err := json.Marshal(items)
	if err != nil {
		slog.Error("encode template list", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "Internal Server Error")
		return
	}
	body = append(body, '\n')
	if h.cache != nil {
		h.cache.Set(r.Context(), key, body)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// Lookup returns the template the hierarchy falls back to for a slug.
func (h *Templates) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s := q.Get("slug")
	if s == "" {
		writeInvalidParam(w, "slug", "slug is required.")
		return
	}
	isCustom := false
	if raw := q.Get("is_custom"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeInvalidParam(w, "is_custom", "is_custom is not of type boolean.")
			return
		}
		isCustom = v
	}

	t, err := h.resolver.Fallback(r.Context(), s, isCustom, q.Get("template_prefix"), h.typ)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.Prepare(r.Context(), t, requestFields(r)))
}

// Get returns a single template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	source := models.Source(r.URL.Query().Get("source"))
	switch source {
	case "", models.SourceTheme, models.SourcePlugin:
	default:
		writeInvalidParam(w, "source", "source is not one of theme, plugin.")
		return
	}

	t, err := h.resolver.Get(r.Context(), chi.URLParam(r, "*"), h.typ, source)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.resolver.Prepare(r.Context(), t, requestFields(r)))
}

// Create stores a new customization for the active theme. A slug derived
// from the title gets a numeric suffix when it is already taken.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePayload(w, r)
	if !ok {
		return
	}

	t := &models.Template{
		Type:     h.typ,
		Theme:    h.resolver.Stylesheet(),
		IsCustom: true,
		Status:   models.StatusPublish,
		Author:   p.Author,
	}
	if p.Theme != nil && *p.Theme != "" {
		t.Theme = *p.Theme
	}
	if msg := applyPayload(t, p, h.typ); msg != "" {
		writeInvalidParam(w, "template", msg)
		return
	}
	taken := func(ctx context.Context, s string) (bool, error) {
		existing, err := h.store.FindBySlug(ctx, h.typ, t.Theme, s)
		return existing != nil, err
	}

	if p.Slug == nil || *p.Slug == "" {
		unique, err := slug.Unique(r.Context(), slug.Generate(t.Title), taken)
		if err != nil {
			writeResolverError(w, r, err)
			return
		}
		t.Slug = unique
	}
	if msg := validateTemplate(t.Slug, t.Title, t.Description, t.Content); msg != "" {
		writeInvalidParam(w, "slug", msg)
		return
	}

	exists, err := taken(r.Context(), t.Slug)
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	if exists {
		writeInvalidParam(w, "slug", "A template with that slug already exists.")
		return
	}

	if _, err := h.store.Create(r.Context(), t); err != nil {
		writeResolverError(w, r, err)
		return
	}
	h.invalidate(r.Context())

	slog.Info("template created", "type", h.typ, "theme", t.Theme, "slug", t.Slug)
	h.respondCurrent(w, r, http.StatusCreated, models.BuildID(t.Theme, t.Slug))
}

// Update edits a template. Editing a theme file or plugin template stores
// a new customization that hides it.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	current, err := h.resolver.Get(r.Context(), id, h.typ, "")
	if err != nil {
		writeResolverError(w, r, err)
		return
	}

	p, ok := decodePayload(w, r)
	if !ok {
		return
	}

	t := current.Clone()
	if p.Author != nil {
		t.Author = p.Author
	}
	if msg := applyPayload(t, p, h.typ); msg != "" {
		writeInvalidParam(w, "template", msg)
		return
	}
	if msg := validateTemplate(t.Slug, t.Title, t.Description, t.Content); msg != "" {
		writeInvalidParam(w, "template", msg)
		return
	}
	if t.Slug != current.Slug {
		existing, err := h.store.FindBySlug(r.Context(), h.typ, t.Theme, t.Slug)
		if err != nil {
			writeResolverError(w, r, err)
			return
		}
		if existing != nil {
			writeInvalidParam(w, "slug", "A template with that slug already exists.")
			return
		}
	}

	if t.WPID == nil {
		if _, err := h.store.Create(r.Context(), t); err != nil {
			writeResolverError(w, r, err)
			return
		}
		slog.Info("template customized", "id", id, "origin", current.Origin)
	} else {
		if err := h.store.Update(r.Context(), t); err != nil {
			writeResolverError(w, r, err)
			return
		}
		slog.Info("template updated", "id", id)
	}
	h.invalidate(r.Context())

	h.respondCurrent(w, r, http.StatusOK, models.BuildID(t.Theme, t.Slug))
}

// Delete trashes a customization, or removes it when force=true. Theme
// files and plugin templates cannot be deleted.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	current, err := h.resolver.Get(r.Context(), id, h.typ, "")
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	if current.WPID == nil {
		writeError(w, http.StatusBadRequest, codeInvalidTemplate, "Templates based on theme files can't be removed.")
		return
	}

	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	previous := h.resolver.Prepare(r.Context(), current, requestFields(r))

	if force {
		if err := h.store.Delete(r.Context(), *current.WPID); err != nil {
			writeResolverError(w, r, err)
			return
		}
		h.invalidate(r.Context())
		slog.Info("template deleted", "id", id)
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "previous": previous})
		return
	}

	if err := h.store.Trash(r.Context(), *current.WPID); err != nil {
		writeResolverError(w, r, err)
		return
	}
	h.invalidate(r.Context())
	slog.Info("template trashed", "id", id)

	trashed := current.Clone()
	trashed.Status = models.StatusTrash
	writeJSON(w, http.StatusOK, h.resolver.Prepare(r.Context(), trashed, requestFields(r)))
}

// respondCurrent writes the merged view of id after a write.
func (h *Templates) respondCurrent(w http.ResponseWriter, r *http.Request, status int, id string) {
	t, err := h.resolver.Get(r.Context(), id, h.typ, "")
	if err != nil {
		writeResolverError(w, r, err)
		return
	}
	writeJSON(w, status, h.resolver.Prepare(r.Context(), t, requestFields(r)))
}

func (h *Templates) invalidate(ctx context.Context) {
	if h.cache != nil {
		h.cache.InvalidateAll(ctx)
	}
}

// decodePayload reads the JSON request body.
func decodePayload(w http.ResponseWriter, r *http.Request) (*templatePayload, bool) {
	var p templatePayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeInvalidParam, "Request body is too large.")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, codeInvalidParam, "Invalid JSON body.")
		return nil, false
	}
	return &p, true
}

// applyPayload copies the present payload fields onto t, sanitizing text
// fields. It returns a validation message on failure.
func applyPayload(t *models.Template, p *templatePayload, typ models.TemplateType) string {
	if p.Slug != nil && *p.Slug != "" {
		t.Slug = *p.Slug
	}
	if p.Title != nil {
		t.Title = sanitizeText(*p.Title)
	}
	if p.Description != nil {
		t.Description = sanitizeText(*p.Description)
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Status != nil {
		status := models.Status(*p.Status)
		if msg := validateStatus(status); msg != "" {
			return msg
		}
		t.Status = status
	}
	if p.PostTypes != nil && typ == models.TemplateTypeTemplate {
		t.PostTypes = p.PostTypes
	}
	if typ == models.TemplateTypePart {
		if p.Area != nil {
			t.Area = normalizeArea(*p.Area)
		} else if t.Area == "" {
			t.Area = models.AreaUncategorized
		}
	}
	return ""
}
