// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"blockpress/internal/handlers"
	"blockpress/internal/models"
	"blockpress/internal/registry"
	"blockpress/internal/resolver"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	// Health endpoint only accepts GET.
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health: got %d, want 200", w.Code)
	}
}

// newTestRouter wires the router over an empty theme and registry.
func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()

	theme := emptyTheme{}
	reg := registry.New(theme.Stylesheet())
	res := resolver.New(reg, theme, emptyStore{}, emptyNamer{})

	promReg := prometheus.NewRegistry()
	r := New(Handlers{
		Templates:     handlers.NewTemplates(res, emptyStore{}, nil, models.TemplateTypeTemplate),
		TemplateParts: handlers.NewTemplates(res, emptyStore{}, nil, models.TemplateTypePart),
		Posts:         handlers.NewPosts(res),
	}, promReg, promReg)
	return r, promReg
}

func TestRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/wp/v2/templates", http.StatusOK},
		{http.MethodGet, "/wp/v2/template-parts", http.StatusOK},
		{http.MethodGet, "/wp/v2/templates/lookup?slug=index", http.StatusNotFound},
		{http.MethodGet, "/wp/v2/templates/blank//index", http.StatusNotFound},
		{http.MethodGet, "/wp/v2/post/template-check", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			if w.Code != tt.want {
				t.Errorf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRoutesSetSecurityHeaders(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wp/v2/templates", nil))
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
}

func TestRoutesRecordMetrics(t *testing.T) {
	r, promReg := newTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp/v2/templates/blank//index", nil))

	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "blockpress_http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "route" && strings.HasPrefix(l.GetValue(), "/wp/v2/templates/") {
					return
				}
			}
		}
	}
	t.Error("no request counted for the template item route")
}

type emptyTheme struct{}

func (emptyTheme) Stylesheet() string                                          { return "blank" }
func (emptyTheme) GetByIDAndType(string, models.TemplateType) *models.Template { return nil }
func (emptyTheme) HasFile(models.TemplateType, string) bool                    { return false }
func (emptyTheme) Hierarchy(slug string, isCustom bool, prefix string) []string {
	return []string{"index"}
}
func (emptyTheme) Query(models.TemplateType, models.TemplateQuery) []*models.Template {
	return nil
}

type emptyStore struct{}

func (emptyStore) FindBySlug(context.Context, models.TemplateType, string, string) (*models.Template, error) {
	return nil, nil
}
func (emptyStore) Query(context.Context, models.TemplateType, string, models.TemplateQuery) ([]*models.Template, error) {
	return nil, nil
}
func (emptyStore) Create(_ context.Context, t *models.Template) (*models.Template, error) {
	return t, nil
}
func (emptyStore) Update(context.Context, *models.Template) error { return nil }
func (emptyStore) Trash(context.Context, uuid.UUID) error         { return nil }
func (emptyStore) Delete(context.Context, uuid.UUID) error        { return nil }

type emptyNamer struct{}

func (emptyNamer) ThemeName(context.Context, string) (string, bool)   { return "", false }
func (emptyNamer) PluginName(context.Context, string) (string, bool)  { return "", false }
func (emptyNamer) SiteName(context.Context) string                    { return "" }
func (emptyNamer) UserName(context.Context, uuid.UUID) (string, bool) { return "", false }
