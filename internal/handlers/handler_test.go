// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory template sources and a test
// environment that serves both collections through chi.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blockpress/internal/hierarchy"
	"blockpress/internal/models"
	"blockpress/internal/registry"
	"blockpress/internal/resolver"
)

const testStylesheet = "twentytwentyfour"

// memTheme serves theme files from memory.
type memTheme struct {
	templates []*models.Template
}

func (m *memTheme) Stylesheet() string { return testStylesheet }

func (m *memTheme) GetByIDAndType(id string, typ models.TemplateType) *models.Template {
	for _, t := range m.templates {
		if t.ID == id && t.Type == typ {
			return t.Clone()
		}
	}
	return nil
}

func (m *memTheme) Query(typ models.TemplateType, q models.TemplateQuery) []*models.Template {
	var out []*models.Template
	for _, t := range m.templates {
		if t.Type == typ && q.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (m *memTheme) HasFile(typ models.TemplateType, slug string) bool {
	for _, t := range m.templates {
		if t.Type == typ && t.Slug == slug {
			return true
		}
	}
	return false
}

func (m *memTheme) Hierarchy(slug string, isCustom bool, prefix string) []string {
	return hierarchy.Default().For(slug, isCustom, prefix)
}

// memStore is an in-memory block_templates table.
type memStore struct {
	mu   sync.Mutex
	rows []*models.Template
}

func (m *memStore) FindBySlug(_ context.Context, typ models.TemplateType, theme, slug string) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.Type == typ && t.Theme == theme && t.Slug == slug && t.Status != models.StatusTrash {
			return t.Clone(), nil
		}
	}
	return nil, nil
}

func (m *memStore) Query(_ context.Context, typ models.TemplateType, theme string, q models.TemplateQuery) ([]*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Template
	for _, t := range m.rows {
		if t.Type != typ || t.Theme != theme || t.Status == models.StatusTrash || !q.Matches(t) {
			continue
		}
		if q.WPID != uuid.Nil && *t.WPID != q.WPID {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

// errDuplicateSlug mirrors the unique index on live (type, theme, slug).
var errDuplicateSlug = errors.New("duplicate key value violates unique constraint")

func (m *memStore) Create(_ context.Context, t *models.Template) (*models.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Type == t.Type && row.Theme == t.Theme && row.Slug == t.Slug && row.Status != models.StatusTrash {
			return nil, errDuplicateSlug
		}
	}
	row := t.Clone()
	id := uuid.New()
	row.WPID = &id
	row.ID = models.BuildID(row.Theme, row.Slug)
	row.Source = models.SourceCustom
	row.Modified = time.Now()
	m.rows = append(m.rows, row)
	return row.Clone(), nil
}

func (m *memStore) Update(_ context.Context, t *models.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if *row.WPID != *t.WPID {
			continue
		}
		// Only the columns the UPDATE statement writes.
		row.Slug = t.Slug
		row.ID = models.BuildID(row.Theme, t.Slug)
		row.Title = t.Title
		row.Description = t.Description
		row.Content = t.Content
		row.Status = t.Status
		row.Area = t.Area
		row.PostTypes = slices.Clone(t.PostTypes)
		row.Author = t.Author
		row.Modified = time.Now()
		return nil
	}
	return errors.New("block template not found")
}

func (m *memStore) Trash(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if *row.WPID == id {
			row.Status = models.StatusTrash
		}
	}
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if *row.WPID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// memCache records response cache traffic.
type memCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.entries[key]
	return b, ok
}

func (m *memCache) Set(_ context.Context, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = body
}

func (m *memCache) InvalidateAll(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.invalidated++
}

// staticNamer answers every lookup with fixed names.
type staticNamer struct{}

func (staticNamer) ThemeName(context.Context, string) (string, bool) {
	return "Twenty Twenty-Four", true
}
func (staticNamer) PluginName(_ context.Context, key string) (string, bool) {
	return "Plugin " + key, true
}
func (staticNamer) SiteName(context.Context) string                    { return "Test Site" }
func (staticNamer) UserName(context.Context, uuid.UUID) (string, bool) { return "", false }

// testEnv holds the dependencies of the handler tests.
type testEnv struct {
	Registry *registry.Registry
	Store    *memStore
	Cache    *memCache
	Router   chi.Router
}

// newTestEnv serves a theme with index, single and a header part, and a
// registry holding one plugin template.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	theme := &memTheme{templates: []*models.Template{
		themeFile(models.TemplateTypeTemplate, "index", "<!-- index -->"),
		themeFile(models.TemplateTypeTemplate, "single", "<!-- single -->"),
		themeFile(models.TemplateTypePart, "header", "<!-- header -->"),
	}}

	reg := registry.New(testStylesheet)
	if _, err := reg.Register("shop//single-product", models.TemplateTypeTemplate, registry.Options{
		Slug:      "single-product",
		Title:     "Single Product",
		Content:   "<!-- product -->",
		Plugin:    "shop",
		PostTypes: []string{"product"},
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	env := &testEnv{Registry: reg, Store: &memStore{}, Cache: &memCache{}}
	res := resolver.New(reg, theme, env.Store, staticNamer{})

	r := chi.NewRouter()
	r.Route("/wp/v2", func(r chi.Router) {
		r.Mount("/templates", NewTemplates(res, env.Store, env.Cache, models.TemplateTypeTemplate).Routes())
		r.Mount("/template-parts", NewTemplates(res, env.Store, env.Cache, models.TemplateTypePart).Routes())
		r.Get("/{postType}/template-check", NewPosts(res).TemplateCheck)
	})
	env.Router = r
	return env
}

func themeFile(typ models.TemplateType, slug, content string) *models.Template {
	t := &models.Template{
		ID:           models.BuildID(testStylesheet, slug),
		Theme:        testStylesheet,
		Slug:         slug,
		Title:        slug,
		Content:      content,
		Type:         typ,
		Source:       models.SourceTheme,
		Status:       models.StatusPublish,
		HasThemeFile: true,
	}
	if typ == models.TemplateTypePart {
		t.Area = models.AreaHeader
	}
	return t
}

// do sends a request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// decodeObject decodes a JSON object response.
func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

// decodeList decodes a JSON array response.
func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var v []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func assertCode(t *testing.T, body map[string]any, want string) {
	t.Helper()
	if body["code"] != want {
		t.Errorf("code: got %v, want %s", body["code"], want)
	}
}
