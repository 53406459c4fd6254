package hierarchy

// TypeInfo is the built-in title and description of a default template.
type TypeInfo struct {
	Title       string
	Description string
}

// DefaultTypes lists the template slugs every block theme may provide.
// Theme files with any other slug are custom templates.
var DefaultTypes = map[string]TypeInfo{
	"index":          {"Index", "Used as a fallback template for all pages when a more specific template is not defined."},
	"home":           {"Blog Home", "Displays the latest posts as either the site homepage or as the \"Posts page\" as defined under reading settings."},
	"front-page":     {"Front Page", "Displays the homepage of the site."},
	"singular":       {"Single Entries", "Displays any single entry, such as a post or a page."},
	"single":         {"Single Posts", "Displays a single post on the website unless a custom template has been applied."},
	"page":           {"Pages", "Displays a static page unless a custom template has been applied."},
	"archive":        {"All Archives", "Displays any archive, including posts by a single author, category, tag, taxonomy, custom post type, and date."},
	"author":         {"Author Archives", "Displays a single author's post archive."},
	"category":       {"Category Archives", "Displays a post category archive."},
	"taxonomy":       {"Taxonomy", "Displays a custom taxonomy archive."},
	"date":           {"Date Archives", "Displays a post archive when a specific date is visited."},
	"tag":            {"Tag Archives", "Displays a post tag archive."},
	"attachment":     {"Attachment Pages", "Displays when a visitor views the dedicated page that exists for any media attachment."},
	"search":         {"Search Results", "Displays search results."},
	"privacy-policy": {"Privacy Policy", "Displays your site's Privacy Policy page."},
	"404":            {"Page: 404", "Displays when a visitor views a non-existent page, such as a dead link or a mistyped URL."},
}

// IsDefault reports whether slug is one of the default template slugs.
func IsDefault(slug string) bool {
	_, ok := DefaultTypes[slug]
	return ok
}
