package resolver

import (
	"context"
	"strings"
	"time"

	"blockpress/internal/models"
)

// APIRoot is the path prefix of the REST collections linked from responses.
const APIRoot = "/wp/v2"

// Response is the REST representation of a template.
type Response map[string]any

// Link is a single entry of a response's _links.
type Link struct {
	Href       string `json:"href"`
	Embeddable bool   `json:"embeddable,omitempty"`
}

// Prepare shapes t for a REST response, keeping only the top-level fields
// named in fields (all when empty). Plugin templates are serialized as if
// they came from a theme and the origin is restored afterwards. t is never
// modified.
func (r *Resolver) Prepare(ctx context.Context, t *models.Template, fields []string) Response {
	origin := t.Origin
	if origin == models.OriginPlugin {
		origin = models.OriginTheme
	}

	data := serialize(t, origin)
	if t.Origin == models.OriginPlugin {
		data["origin"] = string(models.OriginPlugin)
	}
	data["author_text"] = r.AuthorText(ctx, t)
	data["original_source"] = ClassifyOriginalSource(t)
	data["_links"] = links(t)

	return filterFields(data, fields)
}

// serialize renders the fields every template shares. origin is rendered
// in place of t.Origin.
func serialize(t *models.Template, origin models.Origin) Response {
	data := Response{
		"id":             t.ID,
		"theme":          t.Theme,
		"content":        map[string]any{"raw": t.Content},
		"slug":           t.Slug,
		"source":         t.Source,
		"origin":         nullable(string(origin)),
		"type":           t.Type,
		"description":    t.Description,
		"title":          map[string]any{"raw": t.Title, "rendered": t.Title},
		"status":         t.Status,
		"wp_id":          nil,
		"has_theme_file": t.HasThemeFile,
		"is_custom":      t.IsCustom,
		"author":         nil,
		"modified":       nil,
	}
	if t.WPID != nil {
		data["wp_id"] = *t.WPID
	}
	if t.Author != nil {
		data["author"] = *t.Author
	}
	if !t.Modified.IsZero() {
		data["modified"] = t.Modified.Format(time.RFC3339)
	}
	if t.Type == models.TemplateTypeTemplate {
		data["post_types"] = postTypes(t.PostTypes)
	}
	if t.Type == models.TemplateTypePart {
		data["area"] = t.Area
	}
	if t.Plugin != "" {
		data["plugin"] = t.Plugin
	}
	return data
}

func links(t *models.Template) map[string][]Link {
	base := APIRoot + "/" + t.Type.RESTBase()
	l := map[string][]Link{
		"self":       {{Href: base + "/" + t.ID}},
		"collection": {{Href: base}},
		"about":      {{Href: APIRoot + "/types/" + string(t.Type)}},
	}
	if t.Author != nil {
		l["author"] = []Link{{Href: APIRoot + "/users/" + t.Author.String(), Embeddable: true}}
	}
	return l
}

// filterFields keeps the keys named in fields. Nested names such as
// "title.raw" keep their top-level key.
func filterFields(data Response, fields []string) Response {
	if len(fields) == 0 {
		return data
	}
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		top, _, _ := strings.Cut(strings.TrimSpace(f), ".")
		keep[top] = true
	}
	for k := range data {
		if !keep[k] {
			delete(data, k)
		}
	}
	return data
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func postTypes(pt []string) []string {
	if pt == nil {
		return []string{}
	}
	return append([]string(nil), pt...)
}
