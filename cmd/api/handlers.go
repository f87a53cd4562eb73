package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/lynkupro-api/internal/infra/http/handlers"
	"github.com/xavierca1/lynkupro-api/internal/infra/http/middleware"
)

// newRouter mounts the public probes and the authenticated lead API.
func newRouter(
	allowedOrigins []string,
	auth *middleware.Authenticator,
	leads *handlers.LeadHandler,
	health *handlers.HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leads", func(r chi.Router) {
		r.Use(auth.Authenticate)
		leads.Routes(r)
	})

	return r
}
