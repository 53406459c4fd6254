// Package router sets up the HTTP routes and middleware chain of the
// BlockPress REST API. Template collections are mounted under /wp/v2 next
// to the health and metrics endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockpress/internal/handlers"
	"blockpress/internal/middleware"
)

// Handlers groups the REST controllers served by the router.
type Handlers struct {
	Templates     *handlers.Templates
	TemplateParts *handlers.Templates
	Posts         *handlers.Posts
}

// New creates the chi router with all middleware and routes wired up.
// Metrics are registered with reg and exposed through gatherer.
func New(h Handlers, reg prometheus.Registerer, gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.NewMetrics(reg).Handler)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/wp/v2", func(r chi.Router) {
		r.Mount("/templates", h.Templates.Routes())
		r.Mount("/template-parts", h.TemplateParts.Routes())
		r.Get("/{postType}/template-check", h.Posts.TemplateCheck)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
