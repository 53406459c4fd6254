// Package meta provides display names for template authors. Lookups are
// memoized in memory until they expire or Forget is called.
package meta

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"blockpress/internal/models"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// ThemeNames returns the display name of an installed theme.
type ThemeNames interface {
	DisplayName(stylesheet string) string
}

// PluginNames returns the display name of a plugin by its main file key.
type PluginNames interface {
	Name(key string) (string, bool)
}

// Settings reads site settings.
type Settings interface {
	Get(ctx context.Context, key, fallback string) (string, error)
}

// Users finds users by id.
type Users interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Directory resolves author display names.
type Directory struct {
	themes   ThemeNames
	plugins  PluginNames
	settings Settings
	users    Users
	siteName string
	cache    *gocache.Cache
}

// NewDirectory creates a Directory. siteName is used when the site_name
// setting is unset or unreadable.
func NewDirectory(themes ThemeNames, plugins PluginNames, settings Settings, users Users, siteName string, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultExpiration
	}
	return &Directory{
		themes:   themes,
		plugins:  plugins,
		settings: settings,
		users:    users,
		siteName: siteName,
		cache:    gocache.New(ttl, DefaultCleanupInterval),
	}
}

// ThemeName returns the theme's display name.
func (d *Directory) ThemeName(_ context.Context, stylesheet string) (string, bool) {
	return d.memo("theme:"+stylesheet, func() (string, bool) {
		name := d.themes.DisplayName(stylesheet)
		return name, name != ""
	})
}

// PluginName returns the display name of the plugin with the given key.
func (d *Directory) PluginName(_ context.Context, key string) (string, bool) {
	return d.memo("plugin:"+key, func() (string, bool) {
		return d.plugins.Name(key)
	})
}

// SiteName returns the site_name setting, or the configured name.
func (d *Directory) SiteName(ctx context.Context) string {
	name, _ := d.memo("site", func() (string, bool) {
		name, err := d.settings.Get(ctx, models.SiteNameKey, d.siteName)
		if err != nil {
			slog.Warn("site name lookup failed", "error", err)
			return d.siteName, false
		}
		return name, true
	})
	if name == "" {
		return d.siteName
	}
	return name
}

// UserName returns the display name of the user with the given id.
func (d *Directory) UserName(ctx context.Context, id uuid.UUID) (string, bool) {
	return d.memo("user:"+id.String(), func() (string, bool) {
		u, err := d.users.FindByID(ctx, id)
		if err != nil {
			slog.Warn("user lookup failed", "user_id", id, "error", err)
			return "", false
		}
		if u == nil || u.DisplayName == "" {
			return "", false
		}
		return u.DisplayName, true
	})
}

// Forget drops every memoized name, for example after a theme reload.
func (d *Directory) Forget() {
	d.cache.Flush()
}

type entry struct {
	name string
	ok   bool
}

// memo caches successful lookups only, so a failing backend is retried on
// the next request.
func (d *Directory) memo(key string, lookup func() (string, bool)) (string, bool) {
	if v, found := d.cache.Get(key); found {
		if e, ok := v.(entry); ok {
			return e.name, e.ok
		}
		slog.Error("wrong type in name cache", "key", key)
	}

	name, ok := lookup()
	if ok {
		d.cache.SetDefault(key, entry{name: name, ok: ok})
	}
	return name, ok
}
