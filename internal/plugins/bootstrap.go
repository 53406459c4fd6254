package plugins

import (
	"log/slog"
	"path/filepath"

	"blockpress/internal/models"
	"blockpress/internal/registry"
)

// Result summarizes a bootstrap run.
type Result struct {
	Registered int
	Rejected   int
}

// Bootstrap registers every template declared by plugins. A rejected
// registration is logged by the registry and counted; it never stops the
// remaining registrations.
func Bootstrap(reg *registry.Registry, plugins []*Plugin) Result {
	var res Result
	for _, p := range plugins {
		for _, tm := range p.Templates {
			opts := registry.Options{
				Slug:        tm.Slug,
				Content:     tm.Content,
				Title:       tm.Title,
				Description: tm.Description,
				PostTypes:   tm.PostTypes,
				Area:        tm.Area,
				Plugin:      p.Slug,
			}
			if tm.Path != "" {
				opts.Path = filepath.Join(p.Dir, tm.Path)
			}

			typ := tm.Type
			if typ == "" {
				typ = models.TemplateTypeTemplate
			}

			if _, err := reg.Register(tm.Name, typ, opts); err != nil {
				res.Rejected++
				continue
			}
			res.Registered++
		}
	}

	slog.Info("plugin templates registered",
		"plugins", len(plugins),
		"registered", res.Registered,
		"rejected", res.Rejected,
	)
	return res
}
