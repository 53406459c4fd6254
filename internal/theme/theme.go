// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme loads block templates shipped as files by the active
// theme. A theme directory holds a theme.yaml manifest, full templates in
// templates/*.html and template parts in parts/*.html.
package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"blockpress/internal/hierarchy"
	"blockpress/internal/models"
)

const (
	manifestFile = "theme.yaml"
	templatesDir = "templates"
	partsDir     = "parts"
	fileExt      = ".html"
)

// Manifest is the theme.yaml document.
type Manifest struct {
	Name            string           `yaml:"name"`
	Stylesheet      string           `yaml:"stylesheet"`
	Version         string           `yaml:"version"`
	CustomTemplates []CustomTemplate `yaml:"custom_templates"`
	TemplateParts   []TemplatePart   `yaml:"template_parts"`
}

// CustomTemplate declares metadata for a non-default full template.
type CustomTemplate struct {
	Name      string   `yaml:"name"`
	Title     string   `yaml:"title"`
	PostTypes []string `yaml:"post_types"`
}

// TemplatePart declares metadata for a template part file.
type TemplatePart struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Area  string `yaml:"area"`
}

// Theme is one loaded theme: its manifest and every template file.
type Theme struct {
	Manifest  Manifest
	Dir       string
	templates map[models.TemplateType][]*models.Template
}

// Load reads the theme in dir. A missing manifest is allowed; the
// stylesheet then defaults to the directory name.
func Load(dir string) (*Theme, error) {
	t := &Theme{
		Dir:       dir,
		templates: make(map[models.TemplateType][]*models.Template),
	}

	raw, err := os.ReadFile(filepath.Join(dir, manifestFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &t.Manifest); err != nil {
			return nil, fmt.Errorf("parse %s: %w", manifestFile, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", manifestFile, err)
	}

	if t.Manifest.Stylesheet == "" {
		t.Manifest.Stylesheet = filepath.Base(dir)
	}

	for _, typ := range []models.TemplateType{models.TemplateTypeTemplate, models.TemplateTypePart} {
		templates, err := t.loadFiles(typ)
		if err != nil {
			return nil, err
		}
		t.templates[typ] = templates
	}

	return t, nil
}

// loadFiles reads every template file of one type, sorted by file name.
func (t *Theme) loadFiles(typ models.TemplateType) ([]*models.Template, error) {
	sub := templatesDir
	if typ == models.TemplateTypePart {
		sub = partsDir
	}

	entries, err := os.ReadDir(filepath.Join(t.Dir, sub))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s dir: %w", sub, err)
	}

	var templates []*models.Template
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		content, err := os.ReadFile(filepath.Join(t.Dir, sub, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template file %s: %w", entry.Name(), err)
		}
		slug := strings.TrimSuffix(entry.Name(), fileExt)
		templates = append(templates, t.build(typ, slug, string(content)))
	}
	return templates, nil
}

// build turns a template file into a Template, applying manifest metadata.
func (t *Theme) build(typ models.TemplateType, slug, content string) *models.Template {
	stylesheet := t.Manifest.Stylesheet
	tmpl := &models.Template{
		ID:           models.BuildID(stylesheet, slug),
		Theme:        stylesheet,
		Slug:         slug,
		Title:        slug,
		Content:      content,
		Type:         typ,
		Source:       models.SourceTheme,
		Status:       models.StatusPublish,
		HasThemeFile: true,
		IsCustom:     true,
	}

	if typ == models.TemplateTypePart {
		tmpl.Area = models.AreaUncategorized
		for _, part := range t.Manifest.TemplateParts {
			if part.Name != slug {
				continue
			}
			if part.Title != "" {
				tmpl.Title = part.Title
			}
			if part.Area != "" {
				tmpl.Area = part.Area
			}
		}
		return tmpl
	}

	if info, ok := hierarchy.DefaultTypes[slug]; ok {
		tmpl.IsCustom = false
		tmpl.Title = info.Title
		tmpl.Description = info.Description
	}
	for _, custom := range t.Manifest.CustomTemplates {
		if custom.Name != slug {
			continue
		}
		if custom.Title != "" {
			tmpl.Title = custom.Title
		}
		tmpl.PostTypes = append([]string(nil), custom.PostTypes...)
	}
	return tmpl
}

// Stylesheet returns the theme's identifier.
func (t *Theme) Stylesheet() string {
	return t.Manifest.Stylesheet
}

// Templates returns the loaded templates of one type.
func (t *Theme) Templates(typ models.TemplateType) []*models.Template {
	return t.templates[typ]
}
