package resolver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"blockpress/internal/models"
	"blockpress/internal/registry"
)

func TestClassifyOriginalSource(t *testing.T) {
	author := uuid.New()

	tests := []struct {
		name string
		tmpl models.Template
		want models.Origin
	}{
		{
			name: "theme file without origin",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, HasThemeFile: true, Source: models.SourceTheme},
			want: models.OriginTheme,
		},
		{
			name: "customized theme file",
			tmpl: models.Template{Type: models.TemplateTypePart, HasThemeFile: true, Source: models.SourceCustom},
			want: models.OriginTheme,
		},
		{
			name: "explicit theme origin",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, HasThemeFile: true, Origin: models.OriginTheme, Source: models.SourcePlugin},
			want: models.OriginTheme,
		},
		{
			name: "plugin",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Origin: models.OriginPlugin},
			want: models.OriginPlugin,
		},
		{
			name: "registered plugin template",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, HasThemeFile: true, Origin: models.OriginPlugin, Source: models.SourcePlugin},
			want: models.OriginPlugin,
		},
		{
			name: "site default",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Source: models.SourceCustom},
			want: models.OriginSite,
		},
		{
			name: "user with author",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Source: models.SourceCustom, Author: &author},
			want: models.OriginUser,
		},
		{
			name: "other type",
			tmpl: models.Template{Type: "wp_navigation", HasThemeFile: true, Source: models.SourceTheme},
			want: models.OriginUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOriginalSource(&tt.tmpl); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthorText(t *testing.T) {
	known := uuid.New()
	missing := uuid.New()

	namer := &fakeNamer{
		themes:  map[string]string{"twentytwentyfour": "Twenty Twenty-Four"},
		plugins: map[string]string{"my-plugin/my-plugin.php": "My Plugin"},
		site:    "My Site",
		users:   map[uuid.UUID]string{known: "Jane"},
	}
	r := New(registry.New(stylesheet), &fakeTheme{}, &fakeCustom{}, namer)

	tests := []struct {
		name string
		tmpl models.Template
		want string
	}{
		{
			name: "theme name",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Theme: "twentytwentyfour", HasThemeFile: true, Source: models.SourceTheme},
			want: "Twenty Twenty-Four",
		},
		{
			name: "unknown theme falls back to id",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Theme: "gone", HasThemeFile: true, Source: models.SourceTheme},
			want: "gone",
		},
		{
			name: "plugin name",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Theme: "twentytwentyfour", Plugin: "my-plugin", Origin: models.OriginPlugin},
			want: "My Plugin",
		},
		{
			name: "missing plugin falls back to theme id",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Theme: "twentytwentyfour", Plugin: "shop", Origin: models.OriginPlugin},
			want: "twentytwentyfour",
		},
		{
			name: "site",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Source: models.SourceCustom},
			want: "My Site",
		},
		{
			name: "user",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Source: models.SourceCustom, Author: &known},
			want: "Jane",
		},
		{
			name: "unknown user",
			tmpl: models.Template{Type: models.TemplateTypeTemplate, Source: models.SourceCustom, Author: &missing},
			want: UnknownAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.AuthorText(context.Background(), &tt.tmpl); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithPluginKey(t *testing.T) {
	namer := &fakeNamer{plugins: map[string]string{"shop/main.php": "Shop"}}
	key := func(t *models.Template) string { return t.Plugin + "/main.php" }
	r := New(registry.New(stylesheet), &fakeTheme{}, &fakeCustom{}, namer, WithPluginKey(key))

	tmpl := &models.Template{Type: models.TemplateTypeTemplate, Theme: stylesheet, Plugin: "shop", Origin: models.OriginPlugin}
	if got := r.AuthorText(context.Background(), tmpl); got != "Shop" {
		t.Errorf("got %q, want Shop", got)
	}
}

func TestLegacyPluginKey(t *testing.T) {
	tests := []struct {
		tmpl models.Template
		want string
	}{
		{models.Template{Plugin: "my-plugin", Theme: "tt4"}, "my-plugin/my-plugin.php"},
		{models.Template{Theme: "tt4"}, "tt4/tt4.php"},
	}
	for _, tt := range tests {
		if got := LegacyPluginKey(&tt.tmpl); got != tt.want {
			t.Errorf("LegacyPluginKey(%+v): got %q, want %q", tt.tmpl, got, tt.want)
		}
	}
}

func TestPrepare(t *testing.T) {
	r, reg := newTestResolver(t, &fakeTheme{}, &fakeCustom{})
	tmpl, err := reg.Register("my-plugin//my-template", models.TemplateTypeTemplate, registry.Options{
		Slug: "my-template", Title: "My Template", Plugin: "my-plugin",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	before := tmpl.Clone()

	got := r.Prepare(context.Background(), tmpl, nil)

	if diff := cmp.Diff(before, tmpl); diff != "" {
		t.Errorf("Prepare mutated its input (-before +after):\n%s", diff)
	}
	if got["origin"] != "plugin" {
		t.Errorf("origin: got %v, want plugin", got["origin"])
	}
	if got["original_source"] != models.OriginPlugin {
		t.Errorf("original_source: got %v", got["original_source"])
	}
	if got["author_text"] != "My Plugin" {
		t.Errorf("author_text: got %v", got["author_text"])
	}
	if got["plugin"] != "my-plugin" {
		t.Errorf("plugin: got %v", got["plugin"])
	}
	if _, ok := got["area"]; ok {
		t.Error("area must only be present for template parts")
	}

	l, ok := got["_links"].(map[string][]Link)
	if !ok {
		t.Fatalf("_links: got %T", got["_links"])
	}
	if l["self"][0].Href != "/wp/v2/templates/twentytwentyfour//my-template" {
		t.Errorf("self link: got %q", l["self"][0].Href)
	}
}

func TestSerializeUsesOriginOverride(t *testing.T) {
	tmpl := &models.Template{Type: models.TemplateTypeTemplate, Origin: models.OriginPlugin}
	if got := serialize(tmpl, models.OriginTheme)["origin"]; got != "theme" {
		t.Errorf("origin: got %v, want theme", got)
	}
	if got := serialize(&models.Template{Type: models.TemplateTypeTemplate}, models.OriginNone)["origin"]; got != nil {
		t.Errorf("empty origin: got %v, want nil", got)
	}
}

func TestPrepareFields(t *testing.T) {
	r, _ := newTestResolver(t, &fakeTheme{}, &fakeCustom{})
	tmpl := &models.Template{
		ID:   "twentytwentyfour//header",
		Slug: "header",
		Type: models.TemplateTypePart,
		Area: models.AreaHeader,
	}

	got := r.Prepare(context.Background(), tmpl, []string{"id", "area", "title.raw"})

	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	want := []string{"area", "id", "title"}
	if diff := cmp.Diff(want, keys, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
}
