package resolver

import (
	"context"

	"github.com/google/uuid"

	"blockpress/internal/models"
)

// UnknownAuthor is the author text for user templates whose author cannot
// be found.
const UnknownAuthor = "Unknown author"

// Namer looks up display names for template authors. Each lookup reports
// false when the name is unavailable so callers can fall back.
type Namer interface {
	ThemeName(ctx context.Context, stylesheet string) (string, bool)
	PluginName(ctx context.Context, key string) (string, bool)
	SiteName(ctx context.Context) string
	UserName(ctx context.Context, id uuid.UUID) (string, bool)
}

// PluginKeyFunc derives the plugin directory key used to look up the
// display name of a plugin-origin template.
type PluginKeyFunc func(t *models.Template) string

// LegacyPluginKey builds "<plugin>/<plugin>.php" from the template's plugin
// slug, or from its theme when no plugin is recorded. Plugins whose main
// file is named differently do not match and fall back to the raw theme id.
func LegacyPluginKey(t *models.Template) string {
	name := t.Plugin
	if name == "" {
		name = t.Theme
	}
	return name + "/" + name + ".php"
}

// ClassifyOriginalSource reports who supplied t. Rules are checked in
// order: theme file, plugin, site default, user edit. Types other than
// templates and template parts always classify as user.
func ClassifyOriginalSource(t *models.Template) models.Origin {
	if !t.Type.Valid() {
		return models.OriginUser
	}

	if t.HasThemeFile && (t.Origin == models.OriginTheme ||
		(t.Origin == models.OriginNone && (t.Source == models.SourceTheme || t.Source == models.SourceCustom))) {
		return models.OriginTheme
	}
	if t.Origin == models.OriginPlugin {
		return models.OriginPlugin
	}
	if !t.HasThemeFile && t.Source == models.SourceCustom && t.Author == nil {
		return models.OriginSite
	}
	return models.OriginUser
}

// AuthorText returns the human-readable author of t. Missing metadata never
// fails: theme and plugin names fall back to the raw theme id and unknown
// users to UnknownAuthor.
func (r *Resolver) AuthorText(ctx context.Context, t *models.Template) string {
	switch ClassifyOriginalSource(t) {
	case models.OriginTheme:
		if name, ok := r.namer.ThemeName(ctx, t.Theme); ok {
			return name
		}
		return t.Theme
	case models.OriginPlugin:
		if name, ok := r.namer.PluginName(ctx, r.pluginKey(t)); ok {
			return name
		}
		return t.Theme
	case models.OriginSite:
		return r.namer.SiteName(ctx)
	default:
		if t.Author == nil {
			return UnknownAuthor
		}
		if name, ok := r.namer.UserName(ctx, *t.Author); ok {
			return name
		}
		return UnknownAuthor
	}
}
