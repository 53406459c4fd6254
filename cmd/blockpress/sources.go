package main

import (
	"fmt"
	"log/slog"

	"blockpress/internal/hierarchy"
	"blockpress/internal/models"
	"blockpress/internal/plugins"
	"blockpress/internal/registry"
	"blockpress/internal/resolver"
	"blockpress/internal/theme"
)

// sources holds the file-backed template sources: the active theme and
// the registry populated from plugin manifests.
type sources struct {
	theme    *theme.Source
	registry *registry.Registry
	plugins  []*plugins.Plugin
}

// loadSources opens the theme in themeDir and registers the templates of
// every plugin under pluginsDir. Rejected plugin templates are logged and
// skipped.
func loadSources(themeDir, pluginsDir string) (*sources, error) {
	src, err := theme.Open(themeDir, hierarchy.Default())
	if err != nil {
		return nil, err
	}

	plugs, err := plugins.LoadDir(pluginsDir)
	if err != nil {
		return nil, fmt.Errorf("load plugins: %w", err)
	}

	reg := registry.New(src.Stylesheet())
	res := plugins.Bootstrap(reg, plugs)
	slog.Info("plugin templates registered",
		"plugins", len(plugs),
		"registered", res.Registered,
		"rejected", res.Rejected,
	)

	return &sources{theme: src, registry: reg, plugins: plugs}, nil
}

// pluginKey maps a template to the main file key of the plugin that
// registered it, honoring manifests that name their own file.
func (s *sources) pluginKey() resolver.PluginKeyFunc {
	keys := make(map[string]string, len(s.plugins))
	for _, p := range s.plugins {
		keys[p.Slug] = p.Key()
	}
	return func(t *models.Template) string {
		if key, ok := keys[t.Plugin]; ok {
			return key
		}
		return resolver.LegacyPluginKey(t)
	}
}
