// Package routes configures the HTTP router and the media pipeline
// middleware ordering.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursekit/media-gateway/app"
	"github.com/coursekit/media-gateway/middleware"
)

// SetupRoutes configures all application routes and middleware.
//
// The media pipeline order is fixed: path extraction and classification
// first, then metrics, then authentication, then course authorization,
// then the header policy (so denial responses carry no streaming
// headers), and finally the streaming handler.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware. No request timeout on purpose: video streams are
	// legitimate long-lived responses.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Range"},
		ExposedHeaders:   []string{"Content-Range", "Accept-Ranges", "Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	if deps.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Media pipeline
	r.Route("/api/media", func(r chi.Router) {
		r.Use(middleware.ExtractMediaPath(deps.Logger))
		r.Use(middleware.Metrics)
		r.Use(middleware.Authenticate(deps.Verifier, deps.Auditor, deps.Logger))
		r.Use(middleware.AuthorizeCourse(deps.Auditor, deps.Logger))
		r.Use(middleware.SecurityHeaders(int(deps.Config.Media.CacheMaxAge.Seconds())))
		r.Get("/*", deps.MediaHandler.HandleMedia)
	})

	return r
}
