package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"blockpress/internal/models"
)

// Validation limits for template fields.
const (
	maxTitleLen       = 300
	maxSlugLen        = 200
	maxDescriptionLen = 1_000
	maxContentLen     = 500_000
	maxBodyBytes      = 1 << 20
)

// slugPattern matches the characters allowed in a template slug.
var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// textPolicy strips all markup from titles and descriptions.
var textPolicy = bluemonday.StrictPolicy()

// sanitizeText removes markup and surrounding whitespace.
func sanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// validateTemplate checks template fields and returns the first error found.
func validateTemplate(slug, title, description, content string) string {
	if slug == "" {
		return "Template slug is required."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Template slug is too long (max 200 characters)."
	}
	if !slugPattern.MatchString(slug) {
		return "Template slug may only contain lowercase letters, digits, hyphens and underscores."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Template content is too long (max 500,000 characters)."
	}
	return ""
}

// validateStatus checks a requested template status.
func validateStatus(status models.Status) string {
	switch status {
	case models.StatusPublish, models.StatusTrash:
		return ""
	}
	return "Status must be one of publish, trash."
}

// normalizeArea maps unknown template part areas to uncategorized.
func normalizeArea(area string) string {
	switch area {
	case models.AreaHeader, models.AreaFooter, models.AreaUncategorized:
		return area
	}
	return models.AreaUncategorized
}
