package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"blockpress/internal/models"
	"blockpress/internal/resolver"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// writeSite lays out a theme and two plugins, one naming its own main file.
func writeSite(t *testing.T) (themeDir, pluginsDir string) {
	t.Helper()
	root := t.TempDir()
	themeDir = filepath.Join(root, "theme")
	pluginsDir = filepath.Join(root, "plugins")

	writeFiles(t, themeDir, map[string]string{
		"theme.yaml":            "name: Starter\nstylesheet: starter\n",
		"templates/index.html":  "<!-- wp:query /-->",
		"templates/single.html": "<!-- wp:post-content /-->",
	})
	writeFiles(t, pluginsDir, map[string]string{
		"shop/plugin.yaml": `name: Shop
file: shop/main.php
templates:
  - name: shop//single-product
    slug: single-product
    content: "<!-- product -->"
    post_types: [product]
`,
		"events/plugin.yaml": `name: Events
templates:
  - name: events//single
    slug: single
    content: "<!-- event -->"
`,
	})
	return themeDir, pluginsDir
}

func TestLoadSources(t *testing.T) {
	themeDir, pluginsDir := writeSite(t)

	src, err := loadSources(themeDir, pluginsDir)
	if err != nil {
		t.Fatalf("loadSources: %v", err)
	}
	if got := src.registry.Stylesheet(); got != "starter" {
		t.Errorf("registry stylesheet: got %q, want starter", got)
	}
	if got := src.registry.Count(models.TemplateTypeTemplate); got != 2 {
		t.Errorf("registered templates: got %d, want 2", got)
	}

	key := src.pluginKey()
	tests := []struct {
		plugin string
		want   string
	}{
		{"shop", "shop/main.php"},
		{"events", "events/events.php"},
		{"gone", "gone/gone.php"},
	}
	for _, tt := range tests {
		if got := key(&models.Template{Plugin: tt.plugin}); got != tt.want {
			t.Errorf("pluginKey(%s): got %q, want %q", tt.plugin, got, tt.want)
		}
	}
}

func TestListTemplatesOffline(t *testing.T) {
	themeDir, pluginsDir := writeSite(t)

	src, err := loadSources(themeDir, pluginsDir)
	if err != nil {
		t.Fatalf("loadSources: %v", err)
	}
	res := resolver.New(src.registry, src.theme, noCustomizations{}, nil)

	var buf bytes.Buffer
	if err := listTemplates(context.Background(), &buf, res, models.TemplateQuery{}, models.TemplateTypeTemplate); err != nil {
		t.Fatalf("listTemplates: %v", err)
	}

	var got []models.Template
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	ids := make([]string, 0, len(got))
	for _, tmpl := range got {
		ids = append(ids, tmpl.ID)
	}
	// The theme's single template hides the plugin one with the same slug.
	want := []string{"starter//index", "starter//single", "starter//single-product"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
}
