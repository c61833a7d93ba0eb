package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/giftwise/internal/api"
	apiMiddleware "github.com/phrazzld/giftwise/internal/api/middleware"
	"github.com/phrazzld/giftwise/internal/metrics"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(middleware.Recoverer)

	ideaHandler := api.NewIdeaHandler(app.ideaService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ideas", ideaHandler.GenerateIdeas)
		r.Get("/providers", ideaHandler.ListProviders)
	})

	r.Get("/health", api.Health)

	if app.registry != nil {
		r.Method(http.MethodGet, app.config.Metrics.Path, metrics.Handler(app.registry))
	}

	return r
}
