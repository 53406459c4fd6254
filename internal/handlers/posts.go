package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blockpress/internal/resolver"
)

// Posts serves the template checks posts run before saving.
type Posts struct {
	resolver *resolver.Resolver
}

// NewPosts creates the posts handlers.
func NewPosts(res *resolver.Resolver) *Posts {
	return &Posts{resolver: res}
}

// TemplateCheck reports whether a post of the routed type may switch to
// the requested template.
func (h *Posts) TemplateCheck(w http.ResponseWriter, r *http.Request) {
	postType := chi.URLParam(r, "postType")
	q := r.URL.Query()

	if err := h.resolver.CheckTemplate(r.Context(), postType, q.Get("template"), q.Get("current")); err != nil {
		writeResolverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "template": q.Get("template")})
}
