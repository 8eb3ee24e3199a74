package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/sitegen/internal/api"
	apiMiddleware "github.com/phrazzld/sitegen/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)

	siteHandler := api.NewSiteHandler(app.siteService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", siteHandler.Generate)
		r.Get("/generations/latest", siteHandler.Latest)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Generated site
	r.Handle("/*", http.FileServer(app.writer.FileSystem()))

	return r
}
