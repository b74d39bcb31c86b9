// Package router sets up all HTTP routes and middleware chains for the
// portfolio server. It organizes routes into the public site and the token
// guarded admin API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
)

// Admin API requests allowed per client IP per minute.
const adminRateLimit = 120

// Options configures the route table.
type Options struct {
	// AdminToken is the bearer token of the admin API. Empty disables it.
	AdminToken string
	// StaticDir is served under /static/.
	StaticDir string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(public *handlers.Public, admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	// Public links end in a slash ("/project/x/"); routes are declared
	// without one.
	r.Use(chimw.StripSlashes)

	r.Get("/health", healthHandler)

	// Public site, rendered from the same templates as the static export.
	r.Get("/", public.Index)
	r.Get("/project/{slug}", public.Project)
	r.Get("/about", public.About)
	r.Get("/contact", public.Contact)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))

	// Admin API: bearer token, no caching, per-IP rate limit.
	limiter := middleware.NewRateLimiter(adminRateLimit, time.Minute)
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(middleware.NoCache)
		r.Use(middleware.RequireToken(opts.AdminToken))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", admin.ProjectsList)
			r.Post("/", admin.ProjectCreate)
			r.Get("/{id}", admin.ProjectGet)
			r.Put("/{id}", admin.ProjectUpdate)
			r.Delete("/{id}", admin.ProjectDelete)

			r.Get("/{id}/blocks", admin.BlocksList)
			r.Post("/{id}/blocks", admin.BlockCreate)
			r.Post("/{id}/blocks/reorder", admin.BlocksReorder)
		})

		r.Put("/blocks/{id}", admin.BlockUpdate)
		r.Delete("/blocks/{id}", admin.BlockDelete)

		r.Get("/pages", admin.PagesList)
		r.Put("/pages/{slug}", admin.PageUpdate)

		r.Post("/upload", admin.Upload)
		r.Post("/export", admin.Export)
		r.Post("/deploy", admin.Deploy)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
