// Package http provides the HTTP delivery layer of the page analyzer: the
// HTML pages for adding and checking URLs, a read-only JSON API and the
// metrics endpoint.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/page-analyzer/pkg/middleware/recoverer"
)

type routerMetrics interface {
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the page analyzer.
func NewRouter(
	logger *httplog.Logger,
	metrics routerMetrics,
	flashes *Flashes,
	urlUseCase urlUseCase,
	checkUseCase checkUseCase,
) *chi.Mux {
	views := mustViews()

	r := chi.NewRouter()

	r.NotFound(views.notFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		views.render(w, r, http.StatusMethodNotAllowed, pageNotFound, pageData{Title: "Not Found"})
	})

	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger, http.HandlerFunc(views.serverError)))
	r.Use(metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           84600,
		}))

		r.Get("/ping", handlePing)

		h := newAPIHandler(urlUseCase)

		r.Get("/urls", h.listURLs)
		r.Get("/urls/{id}", h.getURL)
	})

	r.Group(func(r chi.Router) {
		r.Use(flashes.Middleware)

		h := newURLHandler(urlUseCase, checkUseCase, views)

		r.Get("/", h.index)
		r.Post("/urls", h.createURL)
		r.Get("/urls", h.listURLs)
		r.Get("/urls/{id}", h.showURL)
		r.Post("/urls/{id}/checks", h.runCheck)
	})

	return r
}
