// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package plugins loads plugin manifests and registers the block templates
// they declare. Each plugin lives in its own directory with a plugin.yaml:
//
//	name: My Plugin
//	templates:
//	  - name: my-plugin//my-template
//	    type: wp_template
//	    slug: my-template
//	    path: templates/my-template.html
package plugins

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"blockpress/internal/models"
)

const manifestFile = "plugin.yaml"

// Plugin is one parsed plugin manifest.
type Plugin struct {
	Slug        string             `yaml:"-"`
	Dir         string             `yaml:"-"`
	Name        string             `yaml:"name"`
	File        string             `yaml:"file"`
	Version     string             `yaml:"version"`
	Author      string             `yaml:"author"`
	Description string             `yaml:"description"`
	Templates   []TemplateManifest `yaml:"templates"`
}

// TemplateManifest declares one template a plugin registers. Path is
// relative to the plugin directory.
type TemplateManifest struct {
	Name        string              `yaml:"name"`
	Type        models.TemplateType `yaml:"type"`
	Slug        string              `yaml:"slug"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Path        string              `yaml:"path"`
	Content     string              `yaml:"content"`
	PostTypes   []string            `yaml:"post_types"`
	Area        string              `yaml:"area"`
}

// Key returns the plugin's main file key, "<slug>/<slug>.php" unless the
// manifest names one.
func (p *Plugin) Key() string {
	if p.File != "" {
		return p.File
	}
	return p.Slug + "/" + p.Slug + ".php"
}

// LoadDir parses the manifest of every plugin directory under dir, sorted
// by directory name. A missing dir yields no plugins.
func LoadDir(dir string) ([]*Plugin, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read plugins dir: %w", err)
	}

	var plugins []*Plugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := Load(filepath.Join(dir, entry.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// Load parses the manifest in a single plugin directory.
func Load(dir string) (*Plugin, error) {
	raw, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("read plugin manifest: %w", err)
	}

	p := &Plugin{}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse plugin manifest %s: %w", dir, err)
	}
	p.Slug = filepath.Base(dir)
	p.Dir = dir
	if p.Name == "" {
		p.Name = p.Slug
	}
	return p, nil
}

// Directory indexes plugins by their main file key for display-name
// lookups.
type Directory struct {
	byKey map[string]*Plugin
}

// NewDirectory indexes plugins.
func NewDirectory(plugins []*Plugin) *Directory {
	d := &Directory{byKey: make(map[string]*Plugin, len(plugins))}
	for _, p := range plugins {
		d.byKey[p.Key()] = p
	}
	return d
}

// Name returns the display name of the plugin with the given key.
func (d *Directory) Name(key string) (string, bool) {
	p, ok := d.byKey[key]
	if !ok || p.Name == "" {
		return "", false
	}
	return p.Name, true
}
